package commands

import (
	"fmt"
	"strings"

	"bcflow/internal/handoff"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var handoffKey *string

func init() {
	handoffKey = handoffLatestCmd.Flags().String("key", "", "Print only the value of this key, failing if the latest record lacks it.")

	handoffCmd.AddCommand(handoffLatestCmd, handoffAppendCmd)
	rootCmd.AddCommand(handoffCmd)
}

var handoffCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Inspects or edits the record numbers passed between workflows.",
}

var handoffLatestCmd = &cobra.Command{
	Use:   "latest [--key <key>]",
	Short: "Prints the latest handoff record.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		defer a.Close()

		if *handoffKey != "" {
			value, err := handoff.LatestValue(cmd.Context(), a.store, *handoffKey)
			if err != nil {
				a.Close()
				fatal("failed to read handoff", err)
			}
			fmt.Println(value)
			return
		}

		rec, ok, err := a.store.Latest(cmd.Context())
		if err != nil {
			a.Close()
			fatal("failed to read handoff", err)
		}
		if !ok {
			fmt.Println("no handoff record has been written yet")
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"Key", "Value"})
		for k, v := range rec {
			t.AppendRow(table.Row{k, v})
		}
		t.Render()
	},
}

// parseAssignment splits "key=value".
func parseAssignment(arg string) (handoff.Record, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return nil, fmt.Errorf("expected <key>=<value>, got %q", arg)
	}
	rec := handoff.NewRecord(strings.TrimSpace(key), strings.TrimSpace(value))
	err := rec.Validate()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

var handoffAppendCmd = &cobra.Command{
	Use:   "append <key>=<value>",
	Short: "Appends a record by hand, ex. to approve a requisition created elsewhere.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rec, err := parseAssignment(args[0])
		if err != nil {
			fatal("invalid record", err)
		}

		a := mustApp(cmd)
		defer a.Close()

		err = a.store.Append(cmd.Context(), rec)
		if err != nil {
			a.Close()
			fatal("failed to append record", err)
		}
	},
}
