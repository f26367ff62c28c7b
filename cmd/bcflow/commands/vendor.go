package commands

import (
	"bcflow/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	vendorName *string
	vendorPIN  *string
)

func init() {
	vendorName = vendorCreateCmd.Flags().String("name", "", "The vendor name.")
	vendorPIN = vendorCreateCmd.Flags().String("pin", "", "The vendor's KRA PIN number.")
	vendorCreateCmd.MarkFlagRequired("name")
	vendorCreateCmd.MarkFlagRequired("pin")

	vendorCmd.AddCommand(vendorCreateCmd)
	rootCmd.AddCommand(vendorCmd)
}

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Vendor workflows.",
}

var vendorCreateCmd = &cobra.Command{
	Use:   "create --name <name> --pin <pin>",
	Short: "Creates a vendor card and hands off its number.",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp(cmd)
		runWorkflow(cmd, a, workflows.VendorCreate{
			VendorName: *vendorName,
			PIN:        *vendorPIN,
		})
	},
}
