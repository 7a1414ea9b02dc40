package internal

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Message represents a single turn in a conversation
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsUser    bool   `json:"isUser"`
	ImageData string `json:"imageData,omitempty"` // data-URI encoded PNG/JPEG
}

// ChatRecord represents one durable conversation.
//
// Title is derived from the first message at the time of the first save and
// is intentionally never recomputed afterwards, even as messages grow. Later
// saves must preserve whatever title the record already carries.
type ChatRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"` // unix milliseconds
}

// TitleMaxLen is the number of runes kept when deriving a chat title
// from its first message.
const TitleMaxLen = 30

// NewID returns a fresh opaque identifier for chats and messages.
func NewID() string {
	return uuid.NewString()
}

// NewUserMessage creates a user message, optionally carrying an image payload.
func NewUserMessage(content, imageData string) Message {
	return Message{
		ID:        NewID(),
		Content:   content,
		IsUser:    true,
		ImageData: imageData,
	}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:      NewID(),
		Content: content,
		IsUser:  false,
	}
}

// DeriveTitle truncates a first message's content to TitleMaxLen runes.
// The ellipsis suffix is unconditional, even for short content.
func DeriveTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > TitleMaxLen {
		runes = runes[:TitleMaxLen]
	}
	return string(runes) + "..."
}

// LastAssistant returns the index of the most recent assistant message,
// scanning from the end, or -1 when the record has none.
func (r *ChatRecord) LastAssistant() int {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if !r.Messages[i].IsUser {
			return i
		}
	}
	return -1
}

// GetCreatedAt returns the record's creation time.
func (r *ChatRecord) GetCreatedAt() time.Time {
	if r.CreatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(0, r.CreatedAt*int64(time.Millisecond))
}

// ParseChatRecords decodes the persisted JSON list of chat records. Malformed
// or empty input degrades to an empty slice rather than an error: the
// registry must stay usable even when storage is corrupt.
func ParseChatRecords(value string) []ChatRecord {
	if value == "" {
		return nil
	}
	var records []ChatRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		LogWarn("Corrupt chat list in storage, starting empty: %v", err)
		return nil
	}
	return records
}

// MarshalChatRecords encodes the full record list for storage.
func MarshalChatRecords(records []ChatRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SortByCreatedAtDesc orders records newest first for display. Storage order
// is undefined; callers sort.
func SortByCreatedAtDesc(records []ChatRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
}

// Clone returns a deep copy of the record so callers can hand snapshots
// across goroutines without sharing the messages slice.
func (r *ChatRecord) Clone() ChatRecord {
	out := *r
	out.Messages = make([]Message, len(r.Messages))
	copy(out.Messages, r.Messages)
	return out
}
