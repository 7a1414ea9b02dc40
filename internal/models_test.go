package internal

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "short content keeps the suffix",
			input: "build a landing page",
			want:  "build a landing page...",
		},
		{
			name:  "exactly thirty runes",
			input: strings.Repeat("a", 30),
			want:  strings.Repeat("a", 30) + "...",
		},
		{
			name:  "long content truncated",
			input: strings.Repeat("a", 31),
			want:  strings.Repeat("a", 30) + "...",
		},
		{
			name:  "truncation counts runes not bytes",
			input: strings.Repeat("é", 40),
			want:  strings.Repeat("é", 30) + "...",
		},
		{
			name:  "empty content",
			input: "",
			want:  "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChatRecords_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not json", input: "definitely not json"},
		{name: "wrong shape", input: `{"id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseChatRecords(tt.input); len(got) != 0 {
				t.Errorf("ParseChatRecords(%q) = %v, want empty", tt.input, got)
			}
		})
	}
}

func TestChatRecords_RoundTrip(t *testing.T) {
	records := []ChatRecord{*CreateTestChat("chat1"), *CreateTestChat("chat2")}

	encoded, err := MarshalChatRecords(records)
	if err != nil {
		t.Fatalf("MarshalChatRecords() error = %v", err)
	}

	decoded := ParseChatRecords(encoded)
	if len(decoded) != 2 {
		t.Fatalf("round trip returned %d records, want 2", len(decoded))
	}
	for i := range records {
		if decoded[i].ID != records[i].ID || decoded[i].Title != records[i].Title {
			t.Errorf("record %d = %+v, want %+v", i, decoded[i], records[i])
		}
		if len(decoded[i].Messages) != len(records[i].Messages) {
			t.Fatalf("record %d has %d messages, want %d", i, len(decoded[i].Messages), len(records[i].Messages))
		}
		for j := range records[i].Messages {
			if decoded[i].Messages[j] != records[i].Messages[j] {
				t.Errorf("record %d message %d = %+v, want %+v", i, j, decoded[i].Messages[j], records[i].Messages[j])
			}
		}
	}
}

func TestLastAssistant(t *testing.T) {
	tests := []struct {
		name     string
		messages []Message
		want     int
	}{
		{
			name: "no messages",
			want: -1,
		},
		{
			name:     "only user messages",
			messages: []Message{{ID: "1", IsUser: true}, {ID: "2", IsUser: true}},
			want:     -1,
		},
		{
			name: "latest assistant wins",
			messages: []Message{
				{ID: "1", IsUser: true},
				{ID: "2", IsUser: false},
				{ID: "3", IsUser: true},
				{ID: "4", IsUser: false},
				{ID: "5", IsUser: true},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ChatRecord{Messages: tt.messages}
			if got := r.LastAssistant(); got != tt.want {
				t.Errorf("LastAssistant() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortByCreatedAtDesc(t *testing.T) {
	records := []ChatRecord{
		{ID: "old", CreatedAt: 1000},
		{ID: "new", CreatedAt: 3000},
		{ID: "mid", CreatedAt: 2000},
	}
	SortByCreatedAtDesc(records)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("records[%d].ID = %s, want %s", i, records[i].ID, id)
		}
	}
}

func TestClone_Isolation(t *testing.T) {
	original := CreateTestChat("chat1")
	clone := original.Clone()

	clone.Messages[0].Content = "mutated"
	if original.Messages[0].Content == "mutated" {
		t.Error("Clone() shares the messages slice with the original")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %s", id)
		}
		seen[id] = true
	}
}
