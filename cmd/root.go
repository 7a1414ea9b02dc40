package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	storePath  string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pageforge",
	Short: "Build single-page HTML sites by conversing with a generative model",
	Long: `pageforge is a CLI for iteratively producing and refining a single-page
HTML artifact through conversation with a generative model.

Every conversation is persisted locally in a SQLite store, so chats survive
restarts and can be resumed, listed, exported, and deleted.

Quick Start:
  pageforge chat                     # Start or resume a conversation
  pageforge list                     # List all chats
  pageforge show <chat-id>           # View a specific chat
  pageforge export --format html     # Write out the generated page

The generation service endpoint and credentials live in a YAML config file;
run 'pageforge serve' to host the bundled service locally.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Custom chat database location")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Custom config file location")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openStore opens the chat database honoring the --store flag and returns
// the store plus the handle the caller must close.
func openStore() (*internal.SQLiteStore, *sql.DB, error) {
	path := storePath
	if path == "" {
		var err error
		path, err = internal.DefaultStorePath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve store path: %w", err)
		}
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chat store: %w", err)
	}
	return internal.NewSQLiteStore(db), db, nil
}

// loadConfig reads the YAML config honoring the --config flag.
func loadConfig() (internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
