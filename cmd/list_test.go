package cmd

import (
	"testing"
	"time"

	"github.com/pageforge/pageforge/internal"
)

func TestListCommand(t *testing.T) {
	older := *internal.CreateTestChat("chat-older")
	older.CreatedAt = time.Now().Add(-48 * time.Hour).UnixMilli()
	newer := *internal.CreateTestChat("chat-newer")

	path := seedStore(t, older, newer)

	if err := executeCommand(t, "list", "--store", path); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestChatsDigest(t *testing.T) {
	base := *internal.CreateTestChat("chat-1")
	base.CreatedAt = 1000

	snapshot := func(mutate func(*internal.ChatRecord)) []internal.ChatRecord {
		r := base.Clone()
		if mutate != nil {
			mutate(&r)
		}
		return []internal.ChatRecord{r}
	}

	same := chatsDigest(snapshot(nil))
	if same != chatsDigest(snapshot(nil)) {
		t.Error("digest differs for identical snapshots")
	}

	tests := []struct {
		name   string
		mutate func(*internal.ChatRecord)
	}{
		{
			name:   "title change",
			mutate: func(r *internal.ChatRecord) { r.Title = "renamed..." },
		},
		{
			name: "new message",
			mutate: func(r *internal.ChatRecord) {
				r.Messages = append(r.Messages, internal.NewUserMessage("more", ""))
			},
		},
		{
			name: "message extended in place",
			mutate: func(r *internal.ChatRecord) {
				r.Messages[1].Content += "\n\nmore html"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if chatsDigest(snapshot(tt.mutate)) == same {
				t.Error("digest unchanged after a visible change")
			}
		})
	}

	if chatsDigest(nil) == same {
		t.Error("digest unchanged after the list emptied")
	}
}

func TestDisplayChats(t *testing.T) {
	year := 365 * 24 * time.Hour

	tests := []struct {
		name    string
		records []internal.ChatRecord
	}{
		{
			name:    "no chats",
			records: nil,
		},
		{
			name: "single chat",
			records: []internal.ChatRecord{
				*internal.CreateTestChat("chat-1"),
			},
		},
		{
			name: "long title and missing created date",
			records: []internal.ChatRecord{
				{
					ID:    "chat-long",
					Title: "a title well past the fifty character truncation point of the table",
				},
			},
		},
		{
			name: "each relative date bucket",
			records: []internal.ChatRecord{
				{ID: "chat-today", Title: "today", CreatedAt: time.Now().UnixMilli()},
				{ID: "chat-week", Title: "this week", CreatedAt: time.Now().Add(-3 * 24 * time.Hour).UnixMilli()},
				{ID: "chat-year", Title: "this year", CreatedAt: time.Now().Add(-60 * 24 * time.Hour).UnixMilli()},
				{ID: "chat-old", Title: "old", CreatedAt: time.Now().Add(-2 * year).UnixMilli()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Rendering goes to the terminal; just verify it handles the data.
			displayChats(tt.records)
		})
	}
}
