package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.TestSessionsStore = (*TestSessionsStore)(nil)

// TestSessionsStore implements store.TestSessionsStore using GORM
type TestSessionsStore struct {
	db *gorm.DB
}

// NewTestSessionsStore creates a new TestSessionsStore
func NewTestSessionsStore(db *gorm.DB) *TestSessionsStore {
	return &TestSessionsStore{db: db}
}

func (s *TestSessionsStore) CreateTestSession(session *model.TestSession) error {
	return translate(s.db.Create(session).Error)
}

func (s *TestSessionsStore) ListTestSessions(projectID string, opts store.ListOptions) ([]model.TestSession, error) {
	query := s.db.Order("created_at desc")
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	sessions := []model.TestSession{}
	err := paginate(query, opts).Find(&sessions).Error
	return sessions, err
}

func (s *TestSessionsStore) FetchTestSession(id string) (*model.TestSession, error) {
	var session model.TestSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *TestSessionsStore) StartTestSession(id string, startedAt time.Time) error {
	tx := s.db.Model(&model.TestSession{}).
		Where("id = ? AND status = ?", id, model.SessionStatusCreated).
		Updates(map[string]interface{}{
			"status":     model.SessionStatusRunning,
			"started_at": startedAt,
		})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := s.db.Model(&model.TestSession{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (s *TestSessionsStore) DeleteTestSession(id string) error {
	return affected(s.db.Where("id = ?", id).Delete(&model.TestSession{}))
}
