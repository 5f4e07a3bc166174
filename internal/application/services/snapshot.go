package services

import (
	"encoding/json"

	"github.com/studyplanner/core/internal/store"
)

// snapshot captures the raw documents behind a set of collection keys so
// an optimistic local write can be rolled back when its hosted mirror
// write fails.
type snapshot struct {
	store *store.Store
	saved map[string]json.RawMessage
}

func takeSnapshot(st *store.Store, keys ...string) *snapshot {
	s := &snapshot{store: st, saved: make(map[string]json.RawMessage, len(keys))}
	for _, key := range keys {
		var raw json.RawMessage
		st.Read(key, &raw, json.RawMessage("[]"))
		s.saved[key] = raw
	}
	return s
}

// restore writes the captured documents back. Subscribers fire again,
// which is wanted: dependents re-reconcile against the restored state.
func (s *snapshot) restore() {
	for key, raw := range s.saved {
		s.store.Write(key, raw)
	}
}
