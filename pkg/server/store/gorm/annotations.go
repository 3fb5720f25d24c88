package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// Ensure AnnotationsStore implements store.AnnotationsStore
var _ store.AnnotationsStore = (*AnnotationsStore)(nil)

// AnnotationsStore implements store.AnnotationsStore using GORM
type AnnotationsStore struct {
	db *gorm.DB
}

// NewAnnotationsStore creates a new AnnotationsStore
func NewAnnotationsStore(db *gorm.DB) *AnnotationsStore {
	return &AnnotationsStore{db: db}
}

func (s *AnnotationsStore) CreateAnnotation(a *model.Annotation) error {
	return translate(s.db.Create(a).Error)
}

func (s *AnnotationsStore) ListAnnotations(videoID string, filter store.AnnotationFilter) ([]model.Annotation, error) {
	query := s.db.Where("video_id = ?", videoID)
	if filter.VRUType != nil {
		query = query.Where("vru_type = ?", *filter.VRUType)
	}
	if filter.Validated != nil {
		query = query.Where("validated = ?", *filter.Validated)
	}
	if filter.SessionID != "" {
		query = query.Where("annotation_session_id = ?", filter.SessionID)
	}

	annotations := []model.Annotation{}
	err := query.Order("timestamp asc").Find(&annotations).Error
	return annotations, err
}

func (s *AnnotationsStore) FetchAnnotation(id string) (*model.Annotation, error) {
	var annotation model.Annotation
	if err := s.db.Where("id = ?", id).First(&annotation).Error; err != nil {
		return nil, translate(err)
	}
	return &annotation, nil
}

func (s *AnnotationsStore) UpdateAnnotation(a *model.Annotation) error {
	return affected(s.db.Model(a).
		Select("frame_number", "timestamp", "end_timestamp", "vru_type", "bounding_box",
			"occluded", "truncated", "difficult", "notes", "annotator", "validated").
		Updates(a))
}

func (s *AnnotationsStore) DeleteAnnotation(id string) error {
	return affected(s.db.Where("id = ?", id).Delete(&model.Annotation{}))
}

func (s *AnnotationsStore) CreateAnnotationSession(session *model.AnnotationSession) error {
	return translate(s.db.Create(session).Error)
}

func (s *AnnotationsStore) FetchAnnotationSession(id string) (*model.AnnotationSession, error) {
	var session model.AnnotationSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *AnnotationsStore) UpdateAnnotationSession(session *model.AnnotationSession) error {
	return affected(s.db.Model(session).
		Select("annotator_name", "status", "total_detections", "validated_detections").
		Updates(session))
}
