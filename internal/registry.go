package internal

import (
	"context"
	"sync"
	"time"
)

// Registry is a read-only observer of the Persistence Store. It keeps a
// sorted snapshot of all chat records for list views, refreshed on store
// write notifications and on a fixed-interval polling tick. The tick is an
// explicit eventual-consistency fallback for writers sharing the same
// database file from another process; in-process writes arrive via the
// subscription immediately.
//
// The registry overwrites its list snapshot wholesale on each refresh; it
// never merges with the in-memory state of an open SessionController.
type Registry struct {
	store    Store
	interval time.Duration

	mu      sync.RWMutex
	records []ChatRecord
	changed chan struct{}
}

// DefaultSyncInterval is the polling fallback period.
const DefaultSyncInterval = time.Second

// NewRegistry creates a registry over the store. A non-positive interval
// selects DefaultSyncInterval.
func NewRegistry(store Store, interval time.Duration) *Registry {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Registry{
		store:    store,
		interval: interval,
		changed:  make(chan struct{}, 1),
	}
}

// Run refreshes the snapshot until ctx is cancelled. It subscribes to store
// writes for immediate refresh and keeps the polling tick as a fallback.
func (reg *Registry) Run(ctx context.Context) {
	unsubscribe := reg.store.Subscribe(func() {
		select {
		case reg.changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	reg.Refresh()

	ticker := time.NewTicker(reg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reg.changed:
			reg.Refresh()
		case <-ticker.C:
			reg.Refresh()
		}
	}
}

// Refresh re-reads the store and republishes the sorted snapshot.
func (reg *Registry) Refresh() {
	records, err := reg.store.GetAll()
	if err != nil {
		LogWarn("Registry refresh failed: %v", err)
		return
	}
	SortByCreatedAtDesc(records)

	reg.mu.Lock()
	reg.records = records
	reg.mu.Unlock()
}

// Snapshot returns the current list, newest first.
func (reg *Registry) Snapshot() []ChatRecord {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]ChatRecord, len(reg.records))
	for i := range reg.records {
		out[i] = reg.records[i].Clone()
	}
	return out
}

// Find returns the record with the given id from the snapshot.
func (reg *Registry) Find(id string) (ChatRecord, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for i := range reg.records {
		if reg.records[i].ID == id {
			return reg.records[i].Clone(), true
		}
	}
	return ChatRecord{}, false
}
