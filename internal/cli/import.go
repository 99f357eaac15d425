package cli

import (
	"github.com/spf13/cobra"

	"farewatch/internal/app"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the snapshot ledger into the Postgres archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ImportOptions{
			DryRun: importDryRun,
		}

		return getApp().Import(cmd.Context(), opts)
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Run without writing to the database")
}
