package entities

import "testing"

func TestCycleStatus(t *testing.T) {
	keys := []string{"not_started", "completed", "review"}

	tests := []struct {
		name    string
		current string
		keys    []string
		want    string
	}{
		{"advances to next", "not_started", keys, "completed"},
		{"advances middle", "completed", keys, "review"},
		{"wraps at end", "review", keys, "not_started"},
		{"unknown lands on first", "bogus", keys, "not_started"},
		{"empty current lands on first", "", keys, "not_started"},
		{"single key cycles to itself", "only", []string{"only"}, "only"},
		{"no keys falls back to sentinel", "anything", nil, StatusUnassigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CycleStatus(tt.current, tt.keys); got != tt.want {
				t.Errorf("CycleStatus(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestCycleStatusFullCycleReturnsToStart(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	current := "b"
	for i := 0; i < len(keys); i++ {
		current = CycleStatus(current, keys)
	}
	if current != "b" {
		t.Errorf("after %d cycles got %q, want %q", len(keys), current, "b")
	}
}

func TestCompletionStageNext(t *testing.T) {
	tests := []struct {
		name  string
		stage CompletionStage
		want  CompletionStage
	}{
		{"not started advances", StageNotStarted, StageCompleted},
		{"completed advances", StageCompleted, StageReviewed},
		{"reviewed wraps", StageReviewed, StageNotStarted},
		{"unknown resets", CompletionStage("bogus"), StageNotStarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.Next(); got != tt.want {
				t.Errorf("%q.Next() = %q, want %q", tt.stage, got, tt.want)
			}
		})
	}
}

func TestSubjectEnsureDefaults(t *testing.T) {
	s := Subject{Name: "Math"}
	s.EnsureDefaults()

	if s.Sections == nil {
		t.Error("expected sections to be backfilled")
	}
	if len(s.Statuses) != 3 {
		t.Fatalf("expected 3 default statuses, got %d", len(s.Statuses))
	}
	if s.Statuses[0].Name != "not_started" || s.Statuses[0].Color != "#F59E0B" {
		t.Errorf("unexpected first default status: %+v", s.Statuses[0])
	}
	if s.Statuses[1].Name != "completed" || s.Statuses[1].Color != "#34C759" {
		t.Errorf("unexpected second default status: %+v", s.Statuses[1])
	}
	if s.Statuses[2].Name != "review" || s.Statuses[2].Color != "#8B9467" {
		t.Errorf("unexpected third default status: %+v", s.Statuses[2])
	}
}

func TestSubjectEnsureDefaultsKeepsExisting(t *testing.T) {
	s := Subject{
		Name:     "Math",
		Statuses: []Status{{Name: "custom", Color: "#000000"}},
	}
	s.EnsureDefaults()

	if len(s.Statuses) != 1 || s.Statuses[0].Name != "custom" {
		t.Errorf("existing statuses overwritten: %+v", s.Statuses)
	}
}

func TestSubjectFirstStatusName(t *testing.T) {
	s := Subject{Statuses: []Status{{Name: "alpha"}, {Name: "beta"}}}
	if got := s.FirstStatusName(); got != "alpha" {
		t.Errorf("FirstStatusName() = %q, want %q", got, "alpha")
	}

	empty := Subject{}
	if got := empty.FirstStatusName(); got != StatusUnassigned {
		t.Errorf("FirstStatusName() on empty = %q, want %q", got, StatusUnassigned)
	}
}

func TestSubjectValidate(t *testing.T) {
	tests := []struct {
		name    string
		subject Subject
		wantErr error
	}{
		{"valid", Subject{Name: "Math", Color: "#FF0000"}, nil},
		{"valid without color", Subject{Name: "Math"}, nil},
		{"blank name", Subject{Name: "   "}, ErrNameRequired},
		{"bad color", Subject{Name: "Math", Color: "red"}, ErrInvalidColor},
		{"short hex", Subject{Name: "Math", Color: "#FFF"}, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.subject.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{"valid", Task{Title: "Read ch. 3", Date: "2024-03-01"}, nil},
		{"missing title", Task{Date: "2024-03-01"}, ErrTitleRequired},
		{"missing date", Task{Title: "Read ch. 3"}, ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.task.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExamValidate(t *testing.T) {
	tests := []struct {
		name    string
		exam    Exam
		wantErr error
	}{
		{"valid", Exam{Title: "Final", Date: "2024-06-01", SubjectID: "s1"}, nil},
		{"missing subject", Exam{Title: "Final", Date: "2024-06-01"}, ErrSubjectRequired},
		{"missing date", Exam{Title: "Final", SubjectID: "s1"}, ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.exam.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
