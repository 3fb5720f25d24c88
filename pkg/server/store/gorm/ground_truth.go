package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

const batchSize = 500

var _ store.GroundTruthStore = (*GroundTruthStore)(nil)

// GroundTruthStore implements store.GroundTruthStore using GORM
type GroundTruthStore struct {
	db *gorm.DB
}

// NewGroundTruthStore creates a new GroundTruthStore
func NewGroundTruthStore(db *gorm.DB) *GroundTruthStore {
	return &GroundTruthStore{db: db}
}

func (s *GroundTruthStore) CreateGroundTruth(objects []model.GroundTruthObject) error {
	if len(objects) == 0 {
		return nil
	}
	return translate(s.db.CreateInBatches(objects, batchSize).Error)
}

func (s *GroundTruthStore) ListGroundTruth(videoID string, classLabel *model.VRUType) ([]model.GroundTruthObject, error) {
	query := s.db.Where("video_id = ?", videoID)
	if classLabel != nil {
		query = query.Where("class_label = ?", *classLabel)
	}

	objects := []model.GroundTruthObject{}
	err := query.Order("timestamp asc").Find(&objects).Error
	return objects, err
}

func (s *GroundTruthStore) DeleteGroundTruth(id string) error {
	return affected(s.db.Where("id = ?", id).Delete(&model.GroundTruthObject{}))
}

func (s *GroundTruthStore) ReplaceVideoGroundTruth(videoID string, objects []model.GroundTruthObject) error {
	return s.replace(videoID, objects, "video_id = ?", videoID)
}

func (s *GroundTruthStore) ReplaceVideoCandidates(videoID string, objects []model.GroundTruthObject) error {
	return s.replace(videoID, objects, "video_id = ? AND validated = ?", videoID, false)
}

// replace deletes the rows matching the condition and inserts objects, in one transaction
func (s *GroundTruthStore) replace(videoID string, objects []model.GroundTruthObject, cond string, args ...interface{}) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(cond, args...).Delete(&model.GroundTruthObject{}).Error; err != nil {
			return err
		}
		if len(objects) == 0 {
			return nil
		}
		for i := range objects {
			objects[i].VideoID = videoID
		}
		return translate(tx.CreateInBatches(objects, batchSize).Error)
	})
}
