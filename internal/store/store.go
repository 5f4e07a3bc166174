// Package store implements the persisted collection store: a file-backed
// JSON key/value map with write-through persistence and same-process
// change notification. It is the process analog of browser local storage,
// so concurrent writers of the same file are last-write-wins by design.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/studyplanner/core/internal/infrastructure/logger"
)

// Store holds one JSON document per collection key. All mutation goes
// through Read/Write; direct file access would bypass the notification
// contract.
type Store struct {
	path string
	log  *logger.Logger

	mu      sync.Mutex
	data    map[string]json.RawMessage
	subs    map[string]map[int]func(key string)
	nextSub int
	lastErr error
}

// Open hydrates a store from the given data file. A missing file starts
// empty; a malformed one is treated as absent and reported, never fatal.
func Open(path string, log *logger.Logger) (*Store, error) {
	s := &Store{
		path: path,
		log:  log,
		data: make(map[string]json.RawMessage),
		subs: make(map[string]map[int]func(key string)),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Warnw("Store file is malformed, starting empty", "path", path, "error", err)
		s.data = make(map[string]json.RawMessage)
	}

	return s, nil
}

// Read decodes the document stored under key into dest. When the key is
// absent or its document does not match the expected shape, dest is set
// to fallback and the fallback is persisted immediately.
func (s *Store) Read(key string, dest, fallback interface{}) error {
	s.mu.Lock()

	if raw, ok := s.data[key]; ok {
		if err := json.Unmarshal(raw, dest); err == nil {
			s.mu.Unlock()
			return nil
		}
		s.log.Warnw("Stored value is malformed, falling back to default", "key", key)
	}

	raw, err := json.Marshal(fallback)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode fallback for %q: %w", key, err)
	}
	s.data[key] = raw
	s.persistLocked(key)
	s.mu.Unlock()

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode fallback for %q: %w", key, err)
	}
	return nil
}

// Write encodes value under key, persists synchronously, and then
// notifies the key's subscribers. A value that cannot be encoded is
// rejected before any state changes. A failed disk write keeps the
// in-memory value: the edit survives with a durability gap, reported
// through the logger and LastError.
func (s *Store) Write(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.persistLocked(key)
	fns := s.subscribersLocked(key)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return nil
}

// Subscribe registers fn to run after every Write to key within this
// process. The returned function removes the subscription. Callbacks may
// re-enter the store.
func (s *Store) Subscribe(key string, fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(key string))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}
}

// Keys returns the collection keys currently present.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// LastError returns the most recent persistence failure, or nil after
// the last successful write to disk.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// persistLocked writes the whole map to disk. Callers hold s.mu.
func (s *Store) persistLocked(key string) {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.lastErr = err
		s.log.Errorw("Failed to encode store file", "error", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		s.lastErr = err
		s.log.Errorw("Failed to persist store, keeping in-memory state", "key", key, "error", err)
		return
	}
	s.lastErr = nil
}

// subscribersLocked snapshots the callbacks for key so they can run
// outside the lock.
func (s *Store) subscribersLocked(key string) []func(key string) {
	fns := make([]func(key string), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	return fns
}
