package export

import (
	"io"

	"github.com/pageforge/pageforge/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports chats in YAML format
type YAMLExporter struct{}

type yamlMessage struct {
	ID      string `yaml:"id"`
	Actor   string `yaml:"actor"`
	Content string `yaml:"content"`
}

type yamlChat struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	CreatedAt string        `yaml:"created_at,omitempty"`
	Messages  []yamlMessage `yaml:"messages"`
}

// Export exports a chat to YAML format
func (e *YAMLExporter) Export(chat *internal.ChatRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	out := yamlChat{
		ID:    chat.ID,
		Title: chat.Title,
	}
	if chat.CreatedAt > 0 {
		out.CreatedAt = chat.GetCreatedAt().UTC().Format("2006-01-02T15:04:05Z")
	}
	for _, msg := range chat.Messages {
		actor := "assistant"
		if msg.IsUser {
			actor = "user"
		}
		out.Messages = append(out.Messages, yamlMessage{
			ID:      msg.ID,
			Actor:   actor,
			Content: msg.Content,
		})
	}

	return enc.Encode(out)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
