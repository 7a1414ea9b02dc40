package internal

import (
	"database/sql"
	"sync"
)

// Storage keys. The whole chat list lives under one key, mirroring the
// single-blob layout the persisted format defines; upserts rewrite the blob
// atomically, so last writer wins at whole-record granularity.
const (
	KeyChats        = "chats"
	KeySelectedChat = "selectedChat"
)

// Store is the persistence port for chat records. GetAll returns records in
// undefined order and is total over malformed storage: corrupt JSON degrades
// to an empty list. Upsert replaces the record with a matching id or appends
// it; Delete removes by id and is a no-op when absent.
type Store interface {
	GetAll() ([]ChatRecord, error)
	Upsert(record ChatRecord) error
	Delete(id string) error

	// Selected chat id, kept so a later run can resume the open conversation.
	SelectedChat() (string, error)
	SetSelectedChat(id string) error

	// Subscribe registers an observer invoked after every successful Upsert
	// or Delete. Callbacks run on the writer's goroutine and must not block.
	Subscribe(fn func()) (unsubscribe func())
}

// SQLiteStore persists chat records in the pageforgeKV table.
type SQLiteStore struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[int]func()
	next int
}

// NewSQLiteStore creates a store over an opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, subs: make(map[int]func())}
}

// GetAll loads every chat record. Corrupt or missing data yields an empty
// slice, never an error: the registry stays usable when storage rots.
func (s *SQLiteStore) GetAll() ([]ChatRecord, error) {
	value, err := GetValue(s.db, KeyChats)
	if err != nil {
		return nil, &StorageError{Key: KeyChats, Op: "get", Err: err}
	}
	return ParseChatRecords(value), nil
}

// Upsert replaces the record with a matching id, or appends it. The write is
// a full overwrite of the stored record, not a field-level merge.
func (s *SQLiteStore) Upsert(record ChatRecord) error {
	records, err := s.GetAll()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := s.writeAll(records); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op and still counts as success.
func (s *SQLiteStore) Delete(id string) error {
	records, err := s.GetAll()
	if err != nil {
		return err
	}

	filtered := records[:0]
	for _, r := range records {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}

	if err := s.writeAll(filtered); err != nil {
		return err
	}

	// Selected chat must not dangle after its record is gone.
	if selected, err := s.SelectedChat(); err == nil && selected == id {
		_ = s.SetSelectedChat("")
	}

	s.notify()
	return nil
}

// SelectedChat returns the persisted chat id for session resumption, or ""
// when none is set.
func (s *SQLiteStore) SelectedChat() (string, error) {
	value, err := GetValue(s.db, KeySelectedChat)
	if err != nil {
		return "", &StorageError{Key: KeySelectedChat, Op: "get", Err: err}
	}
	return value, nil
}

// SetSelectedChat persists the chat id to resume on the next run.
func (s *SQLiteStore) SetSelectedChat(id string) error {
	if id == "" {
		if err := DeleteValue(s.db, KeySelectedChat); err != nil {
			return &StorageError{Key: KeySelectedChat, Op: "delete", Err: err}
		}
		return nil
	}
	if err := SetValue(s.db, KeySelectedChat, id); err != nil {
		return &StorageError{Key: KeySelectedChat, Op: "put", Err: err}
	}
	return nil
}

// Subscribe registers a write observer and returns its removal function.
func (s *SQLiteStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *SQLiteStore) writeAll(records []ChatRecord) error {
	value, err := MarshalChatRecords(records)
	if err != nil {
		return &StorageError{Key: KeyChats, Op: "put", Err: err}
	}
	if err := SetValue(s.db, KeyChats, value); err != nil {
		return &StorageError{Key: KeyChats, Op: "put", Err: err}
	}
	return nil
}

func (s *SQLiteStore) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
