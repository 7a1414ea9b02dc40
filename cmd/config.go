package cmd

import (
	"fmt"

	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

var (
	cfgSetKey   string
	cfgSetModel string
	cfgSetURL   string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update credentials and endpoint",
	Long: `Show the active configuration, or persist new values with the --set-*
flags. The API key can also be supplied per-run via PAGEFORGE_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		changed := false
		if cfgSetKey != "" {
			cfg.APIKey = cfgSetKey
			changed = true
		}
		if cfgSetModel != "" {
			cfg.Model = cfgSetModel
			changed = true
		}
		if cfgSetURL != "" {
			cfg.BaseURL = cfgSetURL
			changed = true
		}

		if changed {
			if err := internal.SaveConfig(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println("Config saved")
		}

		key := "(not set)"
		if cfg.APIKey != "" {
			key = "****" + tail(cfg.APIKey, 4)
		}
		fmt.Printf("api_key:  %s\nmodel:    %s\nbase_url: %s\n", key, cfg.Model, cfg.BaseURL)
		return nil
	},
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&cfgSetKey, "set-key", "", "Persist a new API key")
	configCmd.Flags().StringVar(&cfgSetModel, "set-model", "", "Persist a new model identifier")
	configCmd.Flags().StringVar(&cfgSetURL, "set-url", "", "Persist a new generation service URL")
}
