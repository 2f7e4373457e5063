package settings

import (
	"sync/atomic"

	"fyrxlab.net/solvermotd/internal/core/messages"
)

// Snapshot is the complete live configuration. It is never mutated after
// being stored; updates publish a new value.
type Snapshot struct {
	Settings Settings
	Messages *messages.Catalog
}

// Holder publishes snapshots through a single atomic pointer so readers see
// either the previous or the next complete configuration.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder seeded with default settings and an empty
// message catalog.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(&Snapshot{Settings: Defaults(), Messages: messages.NewCatalog(nil)})
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// ReplaceSettings publishes a snapshot carrying s and the current messages.
func (h *Holder) ReplaceSettings(s Settings) {
	h.swap(func(old Snapshot) Snapshot {
		old.Settings = s
		return old
	})
}

// ReplaceMessages publishes a snapshot carrying c and the current settings.
func (h *Holder) ReplaceMessages(c *messages.Catalog) {
	h.swap(func(old Snapshot) Snapshot {
		old.Messages = c
		return old
	})
}

func (h *Holder) swap(fn func(Snapshot) Snapshot) {
	for {
		old := h.current.Load()
		next := fn(*old)
		if h.current.CompareAndSwap(old, &next) {
			return
		}
	}
}
