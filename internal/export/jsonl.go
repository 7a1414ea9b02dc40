package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pageforge/pageforge/internal"
)

// JSONLExporter exports chats in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a chat to JSONL format
func (e *JSONLExporter) Export(chat *internal.ChatRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range chat.Messages {
		obj := map[string]interface{}{
			"id":      msg.ID,
			"isUser":  msg.IsUser,
			"content": msg.Content,
		}
		if msg.ImageData != "" {
			obj["imageData"] = msg.ImageData
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
