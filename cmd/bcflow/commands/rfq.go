package commands

import (
	"bcflow/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	rfqDescription *string
	rfqItem        *string
	rfqQuantity    *string
	rfqSourceNo    *string
	rfqSourceLine  *string
	rfqApproveNo   *string
)

func init() {
	flags := rfqCreateCmd.Flags()
	rfqDescription = flags.String("description", "", "The requisition description, defaults to the config.")
	rfqItem = flags.String("item", "", "The item number of the line.")
	rfqQuantity = flags.String("quantity", "", "The quantity of the line.")
	rfqSourceNo = flags.String("source-no", "", "The source document number (ex. a job number).")
	rfqSourceLine = flags.String("source-line", "", "The source document line number.")

	rfqApproveNo = rfqApproveCmd.Flags().String("rfq", "", "The RFQ number, defaults to the one handed off last.")

	rfqCmd.AddCommand(rfqCreateCmd, rfqApproveCmd, rfqToPOCmd)
	rootCmd.AddCommand(rfqCmd)
}

var rfqCmd = &cobra.Command{
	Use:   "rfq",
	Short: "Request for quotation workflows.",
}

// rfqLine layers the flags that were given over the configured line.
func rfqLine(line workflows.RFQLine) workflows.RFQLine {
	overrides := []struct {
		value  string
		target *string
	}{
		{*rfqDescription, &line.Description},
		{*rfqItem, &line.ItemNo},
		{*rfqQuantity, &line.Quantity},
		{*rfqSourceNo, &line.SourceNo},
		{*rfqSourceLine, &line.SourceLineNo},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.target = o.value
		}
	}
	return line
}

var rfqCreateCmd = &cobra.Command{
	Use:   "create [--description ..] [--item ..] [--quantity ..] [--source-no ..] [--source-line ..]",
	Short: "Creates a requisition, hands off its number and sends it to procurement.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		runWorkflow(cmd, a, workflows.RFQCreate{Line: rfqLine(a.cfg.RFQLine)})
	},
}

var rfqApproveCmd = &cobra.Command{
	Use:   "approve [--rfq <no>]",
	Short: "Requests approval for the requisition handed off last.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		runWorkflow(cmd, a, workflows.RFQApprove{RFQNo: *rfqApproveNo})
	},
}

var rfqToPOCmd = &cobra.Command{
	Use:   "to-po",
	Short: "Opens the requisitions of the vendor handed off last.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		runWorkflow(cmd, a, workflows.RFQToPO{})
	},
}
