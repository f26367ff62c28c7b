package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	historyLimit  *int
	historyFormat *string
)

func init() {
	historyLimit = historyCmd.Flags().Int("limit", 20, "The amount of runs to show.")
	historyFormat = historyCmd.Flags().String("format", "table", "The output format, table or yaml.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--limit n] [--format table|yaml]",
	Short: "Lists recent workflow runs, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		if *historyFormat != "table" && *historyFormat != "yaml" {
			fatal("invalid format", fmt.Errorf("unknown format %q", *historyFormat))
		}

		a := mustApp(cmd)
		defer a.Close()

		runs, err := a.history.Recent(cmd.Context(), *historyLimit)
		if err != nil {
			a.Close()
			fatal("failed to read history", err)
		}

		if *historyFormat == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			err = enc.Encode(runs)
			if err == nil {
				err = enc.Close()
			}
			if err != nil {
				a.Close()
				fatal("failed to encode history", err)
			}
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"Started", "Workflow", "Status", "Duration", "Identifier", "Error"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.StartedAt.In(a.clock.Location()).Format(time.DateTime),
				run.Workflow,
				run.Status,
				run.Duration().String(),
				run.Identifier,
				run.Error,
			})
		}
		t.Render()
	},
}
