package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studyplanner/core/internal/infrastructure/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.json")
	s, err := Open(path, logger.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, path
}

func TestWriteThenRead(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Write("tasks", []string{"a", "b"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []string
	if err := s.Read("tasks", &got, []string{}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Read() = %v, want [a b]", got)
	}
}

func TestWriteSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)

	if err := s.Write("subjects", map[string]string{"id": "s1"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	reopened, err := Open(path, logger.NewNop())
	if err != nil {
		t.Fatalf("Open() after write error = %v", err)
	}

	var got map[string]string
	if err := reopened.Read("subjects", &got, map[string]string{}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got["id"] != "s1" {
		t.Errorf("Read() after reopen = %v, want id s1", got)
	}
}

func TestReadAbsentKeyPersistsFallback(t *testing.T) {
	s, path := newTestStore(t)

	var got []int
	if err := s.Read("missing", &got, []int{1, 2, 3}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Read() fallback = %v, want [1 2 3]", got)
	}

	// The fallback must be durable, not just returned.
	reopened, err := Open(path, logger.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	var again []int
	if err := reopened.Read("missing", &again, []int{}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(again) != 3 {
		t.Errorf("fallback not persisted, got %v", again)
	}
}

func TestOpenMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, logger.NewNop())
	if err != nil {
		t.Fatalf("Open() on malformed file error = %v, want nil", err)
	}
	if keys := s.Keys(); len(keys) != 0 {
		t.Errorf("Keys() = %v, want empty", keys)
	}
}

func TestReadMalformedValueFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.json")
	if err := os.WriteFile(path, []byte(`{"tasks": "not-a-list"}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, logger.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	var got []string
	if err := s.Read("tasks", &got, []string{"fallback"}); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 || got[0] != "fallback" {
		t.Errorf("Read() = %v, want [fallback]", got)
	}
}

func TestSubscribeNotifiesOnWrite(t *testing.T) {
	s, _ := newTestStore(t)

	var notified []string
	unsubscribe := s.Subscribe("tasks", func(key string) {
		notified = append(notified, key)
	})

	s.Write("tasks", []string{"a"})
	s.Write("exams", []string{"b"}) // different key, no notification
	s.Write("tasks", []string{"a", "b"})

	if len(notified) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notified))
	}
	if notified[0] != "tasks" || notified[1] != "tasks" {
		t.Errorf("notified keys = %v", notified)
	}

	unsubscribe()
	s.Write("tasks", []string{})
	if len(notified) != 2 {
		t.Errorf("notification after unsubscribe, got %d", len(notified))
	}
}

func TestSubscriberMayReenterStore(t *testing.T) {
	s, _ := newTestStore(t)

	s.Subscribe("subjects", func(string) {
		// Cascade-style re-entry: read and write other keys from the
		// callback.
		var tasks []string
		s.Read("tasks", &tasks, []string{})
		s.Write("tasks", append(tasks, "added-by-subscriber"))
	})

	if err := s.Write("subjects", []string{"s1"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var tasks []string
	s.Read("tasks", &tasks, []string{})
	if len(tasks) != 1 || tasks[0] != "added-by-subscriber" {
		t.Errorf("re-entrant write not visible, tasks = %v", tasks)
	}
}

func TestWriteRejectsUnencodableValue(t *testing.T) {
	s, _ := newTestStore(t)

	s.Write("tasks", []string{"keep"})
	if err := s.Write("tasks", func() {}); err == nil {
		t.Fatal("Write() of unencodable value succeeded, want error")
	}

	// Prior state must be untouched.
	var got []string
	s.Read("tasks", &got, []string{})
	if len(got) != 1 || got[0] != "keep" {
		t.Errorf("state changed after rejected write: %v", got)
	}
}

func TestKeys(t *testing.T) {
	s, _ := newTestStore(t)

	s.Write("a", 1)
	s.Write("b", 2)

	keys := s.Keys()
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 entries", keys)
	}
}
