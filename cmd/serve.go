package cmd

import (
	"fmt"
	"net/http"

	"github.com/pageforge/pageforge/internal"
	"github.com/pageforge/pageforge/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bundled generation service",
	Long: `Host the generation service the chat client talks to.

The service exposes /api/generate and /api/improve-prompt, validates the
X-API-KEY and X-API-MODEL headers, and forwards assembled prompts to the
Google Generative Language API. Point base_url in the config at this
address to use it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := api.NewServer(api.NewGeminiUpstream())

		internal.LogInfo("Generation service listening on %s", serveAddr)
		fmt.Printf("Listening on %s\n", serveAddr)

		if err := http.ListenAndServe(serveAddr, server.Handler()); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8391", "Listen address")
}
