package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pageforge/pageforge/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles for show command
	chatHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1).
			MarginBottom(1)

	chatMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	codeFenceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Show messages for a specific chat",
	Long:  `Display all messages from a chat. A unique prefix of the id is accepted.`,
	Args:  cobra.ExactArgs(1),
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

		fmt.Println(chatHeaderStyle.Render("💬 " + record.Title))
		meta := fmt.Sprintf("id: %s  •  %d message(s)", record.ID, len(record.Messages))
		if record.CreatedAt > 0 {
			meta += "  •  created " + record.GetCreatedAt().Format("2006-01-02 15:04")
		}
		fmt.Println(chatMetaStyle.Render(meta))

		for _, msg := range record.Messages {
			if msg.IsUser {
				fmt.Println(userMessageStyle.Render("You"))
			} else {
				fmt.Println(assistantMessageStyle.Render("AI"))
			}
			fmt.Println(messageContentStyle.Render(renderContent(msg.Content)))
			if msg.ImageData != "" {
				fmt.Println(messageContentStyle.Render(codeFenceStyle.Render("[image attached]")))
			}
		}

		return nil
	},
}

// renderContent marks code fences so generated documents stand out from prose.
func renderContent(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			lines[i] = codeFenceStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// findChat resolves a full id or unique prefix against the store.
func findChat(store internal.Store, idOrPrefix string) (internal.ChatRecord, error) {
	records, err := store.GetAll()
	if err != nil {
		return internal.ChatRecord{}, fmt.Errorf("failed to load chats: %w", err)
	}

	var matches []internal.ChatRecord
	for _, r := range records {
		if r.ID == idOrPrefix {
			return r, nil
		}
		if strings.HasPrefix(r.ID, idOrPrefix) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return internal.ChatRecord{}, fmt.Errorf("no chat found with id %q", idOrPrefix)
	default:
		return internal.ChatRecord{}, fmt.Errorf("chat id prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
