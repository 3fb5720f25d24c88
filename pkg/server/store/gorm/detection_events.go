package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.DetectionEventsStore = (*DetectionEventsStore)(nil)

// DetectionEventsStore implements store.DetectionEventsStore using GORM
type DetectionEventsStore struct {
	db *gorm.DB
}

// NewDetectionEventsStore creates a new DetectionEventsStore
func NewDetectionEventsStore(db *gorm.DB) *DetectionEventsStore {
	return &DetectionEventsStore{db: db}
}

func (s *DetectionEventsStore) CreateDetectionEvent(e *model.DetectionEvent) error {
	return translate(s.db.Create(e).Error)
}

func (s *DetectionEventsStore) CreateDetectionEvents(events []model.DetectionEvent) error {
	if len(events) == 0 {
		return nil
	}
	return translate(s.db.CreateInBatches(events, batchSize).Error)
}

func (s *DetectionEventsStore) ListDetectionEvents(sessionID string) ([]model.DetectionEvent, error) {
	events := []model.DetectionEvent{}
	err := s.db.Where("test_session_id = ?", sessionID).Order("timestamp asc").Find(&events).Error
	return events, err
}
