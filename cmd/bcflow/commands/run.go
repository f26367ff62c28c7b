package commands

import (
	"log/slog"

	"bcflow/internal/workflows"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func runWorkflow(cmd *cobra.Command, a *app, wf workflows.Workflow) {
	defer a.Close()

	runner, err := a.runner()
	if err != nil {
		fatal("failed to initialize runner", err)
	}

	slog.Info("running workflow", "workflow", wf.Name(), "headless", a.cfg.Browser.Headless)
	result, err := runner.Run(cmd.Context(), wf)
	if err != nil {
		a.Close()
		fatal("workflow failed", err)
	}

	t := newTable()
	t.AppendHeader(table.Row{"Workflow", "Run", "Identifier", "Screenshot"})
	t.AppendRow(table.Row{result.Workflow, result.RunID, result.Identifier, result.Screenshot})
	t.Render()
}
