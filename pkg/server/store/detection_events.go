package store

import "github.com/vrulab/vru-validation/pkg/model"

// DetectionEventsStore abstracts detection event storage operations
type DetectionEventsStore interface {
	CreateDetectionEvent(e *model.DetectionEvent) error

	// CreateDetectionEvents inserts a batch in a single transaction
	CreateDetectionEvents(events []model.DetectionEvent) error

	// ListDetectionEvents returns a session's events ordered by timestamp
	ListDetectionEvents(sessionID string) ([]model.DetectionEvent, error)
}
