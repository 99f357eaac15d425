package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"farewatch/internal/app"
)

var (
	showLimit   int
	showArchive bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recorded fare cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Limit:       showLimit,
			FromArchive: showArchive,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of cycles to display")
	showCmd.Flags().BoolVar(&showArchive, "archive", false, "Read from the Postgres archive instead of the snapshot file")
}
