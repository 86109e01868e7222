package commands

import (
	"fmt"
	"log"
	"os"

	"posts-api/internal/app"
	"posts-api/internal/utils"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string
	driver  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "postsapi",
	Short: "REST API for users and posts",
	Long: `postsapi serves CRUD endpoints for users and posts backed by MongoDB,
PostgreSQL or an in-memory store.

Configuration is read from the environment (and an optional .env file):
  PORT, STORE_DRIVER, MONGODB_URI, MONGODB_DATABASE, DATABASE_URL,
  MAX_PAGE_LIMIT, STORE_CONNECT_TIMEOUT`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			return utils.LoadEnv(envFile)
		}
		if err := utils.LoadEnv(); err != nil {
			log.Println("Warning: .env file not found")
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file instead of .env")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Store driver: mongo, postgres or memory (overrides STORE_DRIVER)")
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig() app.Config {
	cfg := app.LoadConfig()
	if driver != "" {
		cfg.StoreDriver = driver
	}
	return cfg
}
