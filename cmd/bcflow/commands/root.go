package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bcflow/lib/configutil"
	"bcflow/lib/osutil"
	"bcflow/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	headless   *bool
	storePath  *string
	dbPath     *string
	debug      *bool
)

var rootCmd = &cobra.Command{
	Use:   "bcflow",
	Short: "bcflow automates vendor and request for quotation workflows in Business Central.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*debug)

		err := configutil.LoadEnv(".env")
		if err != nil {
			return err
		}
		err = telemetry.SetupFromEnv(cmd.Context(), "bcflow")
		switch {
		case err == nil:
			telemetry.InstrumentHostStats(cmd.Context(), 15*time.Second)
		case !errors.Is(err, os.ErrNotExist):
			slog.Warn("failed to setup telemetry", "err", err.Error())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushTelemetry()
	},
}

var (
	shutdownTelemetry = telemetry.Shutdown
	exitFatal         = osutil.Fatal
)

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := shutdownTelemetry(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err.Error())
	}
}

// fatal exits with an error. os.Exit skips PersistentPostRun, so telemetry
// of the failed run is flushed here.
func fatal(message string, err error) {
	flushTelemetry()
	exitFatal(message, err)
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "bcflow.json5", "The config file, bcflow.local.json5 next to it overrides it.")
	headless = rootCmd.PersistentFlags().Bool("headless", false, "Run the browser without a window.")
	storePath = rootCmd.PersistentFlags().String("store", "", "The handoff file, overrides the config.")
	dbPath = rootCmd.PersistentFlags().String("db", "", "The run history database, overrides the config.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
