package service

import (
	"context"
	"time"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// SessionCounter reports live sessions.
type SessionCounter interface {
	Len() int
}

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// StatusService reports runtime state for operators.
type StatusService struct {
	sessions SessionCounter
	started  time.Time
	checks   map[string]Check
}

// NewStatusService creates a status service.
func NewStatusService(sessions SessionCounter, started time.Time) *StatusService {
	return &StatusService{sessions: sessions, started: started, checks: make(map[string]Check)}
}

// AddCheck registers a named dependency check.
func (s *StatusService) AddCheck(name string, check Check) {
	s.checks[name] = check
}

// Status runs every check and reports the result.
func (s *StatusService) Status(ctx context.Context) *model.Status {
	st := &model.Status{
		Status:         "ok",
		ActiveSessions: s.sessions.Len(),
		Uptime:         time.Since(s.started).Round(time.Second).String(),
		Dependencies:   make(map[string]string, len(s.checks)),
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			st.Dependencies[name] = err.Error()
			st.Status = "degraded"
			continue
		}
		st.Dependencies[name] = "ok"
	}
	return st
}
