package cmd

import (
	"fmt"

	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "Delete a chat",
	Long: `Remove a chat from the local store. Deletion is permanent; export the
chat first if you want to keep it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		record, err := findChat(store, args[0])
		if err != nil {
			return err
		}

		if err := store.Delete(record.ID); err != nil {
			return fmt.Errorf("failed to delete chat: %w", err)
		}

		internal.LogInfo("Deleted chat %s", record.ID)
		fmt.Printf("Deleted chat %s (%s)\n", record.ID, record.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
