package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pageforge/pageforge/internal"
	"github.com/pageforge/pageforge/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	chatID    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chats to file",
	Long: `Export chats to various formats (jsonl, md, yaml, json, html).

The html format writes the generated page itself: the HTML artifact from the
chat's most recent assistant message. Use 'pageforge list' to see chat IDs;
without --chat, every chat is exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var records []internal.ChatRecord
		if chatID != "" {
			record, err := findChat(store, chatID)
			if err != nil {
				return err
			}
			records = []internal.ChatRecord{record}
		} else {
			records, err = store.GetAll()
			if err != nil {
				return fmt.Errorf("failed to load chats: %w", err)
			}
			internal.SortByCreatedAtDesc(records)
		}

		if len(records) == 0 {
			fmt.Println("No chats to export")
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for i := range records {
			record := &records[i]
			path := filepath.Join(outputDir, fmt.Sprintf("chat_%s.%s", record.ID, exporter.Extension()))

			f, err := os.Create(path)
			if err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}

			if err := exporter.Export(record, f); err != nil {
				f.Close()
				// html export legitimately fails on chats with no artifact;
				// skip those instead of aborting the batch.
				if chatID == "" && format == "html" {
					internal.LogWarn("Skipping %s: %v", record.ID, err)
					os.Remove(path)
					continue
				}
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}
			if err := f.Close(); err != nil {
				return &internal.ExportError{Format: format, Path: path, Err: err}
			}

			internal.LogInfo("Exported chat %s to %s", record.ID, path)
			exported++
		}

		fmt.Printf("Exported %d chat(s) to %s\n", exported, outputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: jsonl, md, yaml, json, html")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVar(&chatID, "chat", "", "Export a single chat by id (or unique prefix)")
}
