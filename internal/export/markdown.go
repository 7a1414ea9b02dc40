package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pageforge/pageforge/internal"
)

// MarkdownExporter exports chats in Markdown format
type MarkdownExporter struct{}

// Export exports a chat to Markdown format
func (e *MarkdownExporter) Export(chat *internal.ChatRecord, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", chat.Title)
	_, _ = fmt.Fprintf(w, "**Chat:** %s  \n", chat.ID)
	if chat.CreatedAt > 0 {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", chat.GetCreatedAt().Format("2006-01-02 15:04"))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(chat.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	// Messages
	for i, msg := range chat.Messages {
		actor := "AI"
		if msg.IsUser {
			actor = "User"
		}

		content := escapeMarkdown(msg.Content)
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", actor, content)

		if msg.ImageData != "" {
			_, _ = fmt.Fprintf(w, "_[image attached]_\n\n")
		}

		// Horizontal rule after each message (except the last one)
		if i < len(chat.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code fences
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
