package store

import (
	"time"

	"github.com/vrulab/vru-validation/pkg/model"
)

// TestSessionsStore abstracts test session storage operations
type TestSessionsStore interface {
	CreateTestSession(s *model.TestSession) error

	// ListTestSessions returns sessions, newest first; an empty projectID lists all
	ListTestSessions(projectID string, opts ListOptions) ([]model.TestSession, error)

	FetchTestSession(id string) (*model.TestSession, error)

	// StartTestSession moves a created session to running. It returns
	// ErrConflict when the session is no longer in the created state.
	StartTestSession(id string, startedAt time.Time) error

	DeleteTestSession(id string) error
}
