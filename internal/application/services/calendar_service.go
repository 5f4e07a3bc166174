package services

import (
	"context"

	"github.com/studyplanner/core/internal/planner"
)

// CalendarService exposes the derived calendar projections. Everything
// here is computed from current collection state; nothing is persisted.
type CalendarService struct {
	views *planner.Views
}

// NewCalendarService creates a new calendar service
func NewCalendarService(views *planner.Views) *CalendarService {
	return &CalendarService{views: views}
}

func (s *CalendarService) Events(ctx context.Context) ([]planner.CalendarEvent, error) {
	return s.views.CalendarEvents(), nil
}

func (s *CalendarService) ResolveSubject(ctx context.Context, subjectID string) planner.SubjectRef {
	return s.views.ResolveSubject(subjectID)
}
