package cmd

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pageforge/pageforge/internal"
)

// seedStore creates a chat database in a temp dir, fills it with the given
// records, and returns its path for use with --store.
func seedStore(t *testing.T, records ...internal.ChatRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chats.db")
	db, err := internal.OpenDatabase(path)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	defer db.Close()

	store := internal.NewSQLiteStore(db)
	for _, r := range records {
		if err := store.Upsert(r); err != nil {
			t.Fatalf("failed to seed chat %s: %v", r.ID, err)
		}
	}
	return path
}

// openSeededStore reopens a path produced by seedStore.
func openSeededStore(t *testing.T, path string) (*internal.SQLiteStore, *sql.DB) {
	t.Helper()

	db, err := internal.OpenDatabase(path)
	if err != nil {
		t.Fatalf("failed to reopen test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return internal.NewSQLiteStore(db), db
}

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	return rootCmd.Execute()
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_StoreFlag(t *testing.T) {
	// list against a fresh store should succeed and find nothing
	path := seedStore(t)
	if err := executeCommand(t, "list", "--store", path); err != nil {
		t.Errorf("list with --store failed: %v", err)
	}
}
