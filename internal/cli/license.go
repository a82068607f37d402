package cli

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed license.txt
var licenseText string

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Print the tapsync license and third-party notices",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Print(licenseText)
	},
}

func init() {
	rootCmd.AddCommand(licenseCmd)
}
