package commands

import (
	"posts-api/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create indexes or tables required by the store, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Migrate(cmd.Context(), loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
