package export

import (
	"fmt"
	"io"

	"github.com/pageforge/pageforge/internal"
)

// HTMLExporter writes the chat's latest HTML artifact: the fenced html block
// of the most recent assistant message. This is the document the whole tool
// exists to produce.
type HTMLExporter struct{}

// Export writes the extracted artifact, failing when the chat has none.
func (e *HTMLExporter) Export(chat *internal.ChatRecord, w io.Writer) error {
	idx := chat.LastAssistant()
	if idx < 0 {
		return fmt.Errorf("chat %s has no assistant message", chat.ID)
	}

	artifact := internal.ExtractHTMLArtifact(chat.Messages[idx].Content)
	if artifact == "" {
		return fmt.Errorf("chat %s has no HTML artifact to export", chat.ID)
	}

	_, err := io.WriteString(w, artifact)
	return err
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}
