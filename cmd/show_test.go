package cmd

import (
	"strings"
	"testing"

	"github.com/pageforge/pageforge/internal"
)

func TestShowCommand(t *testing.T) {
	path := seedStore(t, *internal.CreateTestChat("abcdef-123"))

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "show without chat id",
			args:    []string{"show", "--store", path},
			wantErr: true,
		},
		{
			name:    "show by full id",
			args:    []string{"show", "abcdef-123", "--store", path},
			wantErr: false,
		},
		{
			name:    "show by prefix",
			args:    []string{"show", "abc", "--store", path},
			wantErr: false,
		},
		{
			name:    "show unknown id",
			args:    []string{"show", "zzz", "--store", path},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("show error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindChat(t *testing.T) {
	path := seedStore(t,
		*internal.CreateTestChat("aaa-111"),
		*internal.CreateTestChat("aab-222"),
	)
	store, _ := openSeededStore(t, path)

	t.Run("exact id wins over prefix", func(t *testing.T) {
		record, err := findChat(store, "aaa-111")
		if err != nil {
			t.Fatalf("findChat: %v", err)
		}
		if record.ID != "aaa-111" {
			t.Errorf("ID = %s, want aaa-111", record.ID)
		}
	})

	t.Run("unique prefix", func(t *testing.T) {
		record, err := findChat(store, "aab")
		if err != nil {
			t.Fatalf("findChat: %v", err)
		}
		if record.ID != "aab-222" {
			t.Errorf("ID = %s, want aab-222", record.ID)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := findChat(store, "aa")
		if err == nil || !strings.Contains(err.Error(), "ambiguous") {
			t.Errorf("err = %v, want ambiguity error", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := findChat(store, "zzz"); err == nil {
			t.Error("findChat succeeded for unknown id")
		}
	})
}

func TestRenderContent_MarksFences(t *testing.T) {
	out := renderContent("before\n```html\n<html></html>\n```\nafter")
	if !strings.Contains(out, "<html></html>") {
		t.Error("fence body dropped")
	}
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("prose dropped")
	}
}
