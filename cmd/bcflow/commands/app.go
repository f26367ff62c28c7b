package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bcflow/internal/browser"
	"bcflow/internal/components/chrono"
	"bcflow/internal/components/telemetry"
	"bcflow/internal/handoff"
	"bcflow/internal/handoff/sqlstore"
	"bcflow/internal/notify"
	"bcflow/internal/runlog"
	"bcflow/internal/runlog/db"
	"bcflow/internal/workflows"
	"bcflow/lib/sqliteutil"

	"github.com/spf13/cobra"
)

// app holds what commands share, built from the config and the global flags.
type app struct {
	cfg     Config
	clock   chrono.API
	tel     telemetry.API
	store   handoff.Store
	history runlog.Store
	dbs     []*sql.DB
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = *headless
	}
	if *storePath != "" {
		cfg.Handoff.Backend = backendFile
		cfg.Handoff.File = *storePath
	}
	if *dbPath != "" {
		cfg.History = sqliteutil.Config{File: *dbPath}
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		clock: clock,
		tel:   telemetry.SlogAPI{},
	}

	historyDB, err := cfg.History.Open(db.Schema)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	a.dbs = append(a.dbs, historyDB)
	a.history = runlog.NewStore(historyDB, clock)

	switch cfg.Handoff.Backend {
	case backendSql:
		target := cfg.Handoff.Database
		if target == (sqliteutil.Config{}) {
			target = cfg.History
		}
		handoffDB, err := target.Open(sqlstore.Schema)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open handoff store: %w", err)
		}
		a.dbs = append(a.dbs, handoffDB)
		a.store = sqlstore.NewStore(handoffDB)
	default:
		a.store = handoff.NewFileStore(cfg.Handoff.File, a.tel)
	}

	return a, nil
}

// mustApp exits when the app cannot be built.
func mustApp(cmd *cobra.Command) *app {
	a, err := newApp(cmd)
	if err != nil {
		fatal("failed to initialize", err)
	}
	return a
}

func (a *app) Close() error {
	var errlist []error
	for _, d := range a.dbs {
		errlist = append(errlist, d.Close())
	}
	a.dbs = nil
	return errors.Join(errlist...)
}

func (a *app) launch(ctx context.Context) (browser.API, error) {
	session, err := browser.Launch(ctx, a.cfg.Browser, a.clock, a.tel)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (a *app) runner() (workflows.Runner, error) {
	return workflows.NewRunner(
		a.launch,
		workflows.Env{
			BC:         a.cfg.BC,
			Creds:      a.cfg.Credentials(),
			Store:      a.store,
			InputsPath: a.cfg.InputsFile,
		},
		workflows.WithHistory(a.history),
		workflows.WithNotifier(notify.New(a.cfg.Notify, a.tel)),
		workflows.WithTelemetryAPI(a.tel),
	)
}
