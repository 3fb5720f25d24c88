package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.ResultsStore = (*ResultsStore)(nil)

// ResultsStore implements store.ResultsStore using GORM
type ResultsStore struct {
	db *gorm.DB
}

// NewResultsStore creates a new ResultsStore
func NewResultsStore(db *gorm.DB) *ResultsStore {
	return &ResultsStore{db: db}
}

func (s *ResultsStore) SaveValidationRun(sessionID string, run *store.ValidationRun) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		run.Result.TestSessionID = sessionID
		if err := tx.Create(run.Result).Error; err != nil {
			return err
		}

		for i := range run.Comparisons {
			run.Comparisons[i].TestSessionID = sessionID
			run.Comparisons[i].TestResultID = run.Result.ID
		}
		if len(run.Comparisons) > 0 {
			if err := tx.CreateInBatches(run.Comparisons, batchSize).Error; err != nil {
				return err
			}
		}

		byType := map[model.MatchType][]string{}
		for id, matchType := range run.DetectionResults {
			byType[matchType] = append(byType[matchType], id)
		}
		for _, matchType := range model.MatchTypeValues() {
			ids := byType[matchType]
			if len(ids) == 0 {
				continue
			}
			err := tx.Model(&model.DetectionEvent{}).
				Where("test_session_id = ? AND id IN ?", sessionID, ids).
				Update("validation_result", matchType).Error
			if err != nil {
				return err
			}
		}

		return affected(tx.Model(&model.TestSession{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
			"status":       model.SessionStatusCompleted,
			"completed_at": time.Now().UTC(),
		}))
	})
}

func (s *ResultsStore) LatestResult(sessionID string) (*model.TestResult, []model.DetectionComparison, error) {
	var result model.TestResult
	err := s.db.Where("test_session_id = ?", sessionID).Order("created_at desc").First(&result).Error
	if err != nil {
		return nil, nil, translate(err)
	}

	comparisons := []model.DetectionComparison{}
	if err := s.db.Where("test_result_id = ?", result.ID).Find(&comparisons).Error; err != nil {
		return nil, nil, err
	}
	return &result, comparisons, nil
}
