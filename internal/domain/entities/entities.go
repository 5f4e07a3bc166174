package entities

import (
	"errors"
	"regexp"
	"strings"
)

// Common errors
var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrExamNotFound     = errors.New("exam not found")
	ErrLectureNotFound  = errors.New("lecture not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrStatusNotFound   = errors.New("status not found")
	ErrNameRequired     = errors.New("name is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrDateRequired     = errors.New("date is required")
	ErrSubjectRequired  = errors.New("subject is required")
	ErrInvalidColor     = errors.New("invalid color")
	ErrDuplicateStatus  = errors.New("status already exists")
	ErrDuplicateSection = errors.New("section already exists")
	ErrBuiltinSetting   = errors.New("built-in setting cannot be removed")
	ErrNameUnchanged    = errors.New("name is unchanged")
)

// StatusUnassigned is the sentinel a lecture falls back to when its
// subject has no statuses left to reassign it to.
const StatusUnassigned = "unassigned"

// FallbackColor is used wherever a referenced subject no longer resolves.
const FallbackColor = "#9CA3AF"

// Date and clock-time layouts used on all scheduled entities.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CompletionStage tracks how far a lecture has been worked through.
// It is independent of the subject's configurable status set.
type CompletionStage string

const (
	StageNotStarted CompletionStage = "not_started"
	StageCompleted  CompletionStage = "completed"
	StageReviewed   CompletionStage = "reviewed"
)

// Next advances the stage through the fixed three-step cycle.
func (s CompletionStage) Next() CompletionStage {
	switch s {
	case StageNotStarted:
		return StageCompleted
	case StageCompleted:
		return StageReviewed
	default:
		return StageNotStarted
	}
}

func (s CompletionStage) IsValid() bool {
	switch s {
	case StageNotStarted, StageCompleted, StageReviewed:
		return true
	default:
		return false
	}
}

// Status is one entry of a subject's ordered, user-configurable status set.
// The name doubles as the key lectures reference.
type Status struct {
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}

// Section is a named bucket inside a subject that lectures can be filed under.
type Section struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Subject owns its sections and statuses; tasks, exams and lectures point
// at it by id.
type Subject struct {
	ID       string    `json:"id" db:"id"`
	UserID   string    `json:"user_id,omitempty" db:"user_id"`
	Name     string    `json:"name" db:"name"`
	Color    string    `json:"color" db:"color"`
	Sections []Section `json:"sections" db:"sections"`
	Statuses []Status  `json:"statuses" db:"statuses"`
}

// DefaultStatuses is the seed applied to any subject loaded without a
// status list.
func DefaultStatuses() []Status {
	return []Status{
		{Name: "not_started", Color: "#F59E0B"},
		{Name: "completed", Color: "#34C759"},
		{Name: "review", Color: "#8B9467"},
	}
}

// EnsureDefaults backfills sections and statuses on subjects persisted
// before those fields existed.
func (s *Subject) EnsureDefaults() {
	if s.Sections == nil {
		s.Sections = []Section{}
	}
	if len(s.Statuses) == 0 {
		s.Statuses = DefaultStatuses()
	}
}

// Validate checks required-field presence only.
func (s *Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if s.Color != "" && !colorPattern.MatchString(s.Color) {
		return ErrInvalidColor
	}
	return nil
}

// SectionByID returns the embedded section with the given id.
func (s *Subject) SectionByID(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// HasStatus reports whether a status with the given name is configured.
func (s *Subject) HasStatus(name string) bool {
	for _, st := range s.Statuses {
		if st.Name == name {
			return true
		}
	}
	return false
}

// FirstStatusName returns the reassignment target after a status delete.
// Falls back to the unassigned sentinel when no statuses remain.
func (s *Subject) FirstStatusName() string {
	if len(s.Statuses) == 0 {
		return StatusUnassigned
	}
	return s.Statuses[0].Name
}

// StatusKeys returns the ordered status names, the cycle order for
// CycleStatus.
func (s *Subject) StatusKeys() []string {
	keys := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		keys[i] = st.Name
	}
	return keys
}

// Task is a scheduled to-do. Date is required; time, duration and the
// subject reference are optional.
type Task struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id,omitempty" db:"user_id"`
	Title     string `json:"title" db:"title"`
	Date      string `json:"date" db:"date"`
	Time      string `json:"time,omitempty" db:"time"`
	Duration  string `json:"duration,omitempty" db:"duration"`
	Notes     string `json:"notes,omitempty" db:"notes"`
	SubjectID string `json:"subjectId,omitempty" db:"subject_id"`
	Completed bool   `json:"completed" db:"completed"`
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	if t.Date == "" {
		return ErrDateRequired
	}
	return nil
}

// Exam is a scheduled examination. Unlike tasks it carries no duration
// and must reference a subject.
type Exam struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id,omitempty" db:"user_id"`
	Title     string `json:"title" db:"title"`
	Date      string `json:"date" db:"date"`
	Time      string `json:"time,omitempty" db:"time"`
	SubjectID string `json:"subjectId" db:"subject_id"`
	Notes     string `json:"notes,omitempty" db:"notes"`
	Completed bool   `json:"completed" db:"completed"`
}

func (e *Exam) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrTitleRequired
	}
	if e.Date == "" {
		return ErrDateRequired
	}
	if e.SubjectID == "" {
		return ErrSubjectRequired
	}
	return nil
}

// Lecture belongs to a subject and optionally to one of its sections.
// Status is a key into the subject's status set; Completed cycles through
// the fixed three stages.
type Lecture struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id,omitempty" db:"user_id"`
	Title     string          `json:"title" db:"title"`
	SubjectID string          `json:"subjectId" db:"subject_id"`
	SectionID string          `json:"sectionId,omitempty" db:"section_id"`
	Status    string          `json:"status" db:"status"`
	Completed CompletionStage `json:"completed" db:"completed"`
	Notes     string          `json:"notes,omitempty" db:"notes"`
}

func (l *Lecture) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrTitleRequired
	}
	if l.SubjectID == "" {
		return ErrSubjectRequired
	}
	return nil
}

// CycleStatus returns the status following current in the ordered key
// list, wrapping at the end. An unknown current status is treated as
// index -1, so the cycle lands on the first key.
func CycleStatus(current string, keys []string) string {
	if len(keys) == 0 {
		return StatusUnassigned
	}
	idx := -1
	for i, k := range keys {
		if k == current {
			idx = i
			break
		}
	}
	return keys[(idx+1)%len(keys)]
}

// StatusSetting describes one difficulty level in the statusSettings map.
type StatusSetting struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	BgColor     string `json:"bgColor"`
	TextColor   string `json:"textColor"`
}

// CompletionSetting describes one completion stage in the completionStatus map.
type CompletionSetting struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// DefaultStatusSettings is the built-in difficulty map. These entries may
// be recolored or extended but never removed.
func DefaultStatusSettings() map[string]StatusSetting {
	return map[string]StatusSetting{
		"unknown": {
			Label:       "Unknown",
			Description: "Haven't assessed the difficulty level yet",
			Color:       "bg-gray-100 text-gray-700",
			BgColor:     "bg-gray-100",
			TextColor:   "text-gray-700",
		},
		"easy": {
			Label:       "Easy",
			Description: "Basic concepts, quick to understand",
			Color:       "bg-green-100 text-green-700",
			BgColor:     "bg-green-100",
			TextColor:   "text-green-700",
		},
		"medium": {
			Label:       "Medium",
			Description: "Requires focus, manageable with practice",
			Color:       "bg-yellow-100 text-yellow-700",
			BgColor:     "bg-yellow-100",
			TextColor:   "text-yellow-700",
		},
		"hard": {
			Label:       "Hard",
			Description: "Complex concepts, needs extra attention",
			Color:       "bg-orange-100 text-orange-700",
			BgColor:     "bg-orange-100",
			TextColor:   "text-orange-700",
		},
		"very_hard": {
			Label:       "Very Hard",
			Description: "Challenging material, requires significant effort",
			Color:       "bg-red-100 text-red-700",
			BgColor:     "bg-red-100",
			TextColor:   "text-red-700",
		},
	}
}

// DefaultCompletionSettings is the built-in completion-stage map.
func DefaultCompletionSettings() map[string]CompletionSetting {
	return map[string]CompletionSetting{
		"not_started": {Label: "Not Started", Color: "gray", Description: "Lecture not yet started"},
		"completed":   {Label: "Completed", Color: "green", Description: "Lecture completed"},
		"reviewed":    {Label: "Reviewed", Color: "blue", Description: "Lecture reviewed and mastered"},
	}
}
