package model

import (
	"time"

	"gorm.io/gorm"
)

// AnnotationSession tracks one annotator's pass over a video.
type AnnotationSession struct {
	ID                  string                  `gorm:"column:id;primaryKey" json:"id"`
	VideoID             string                  `gorm:"column:video_id;not null;index" json:"videoId"`
	ProjectID           string                  `gorm:"column:project_id;not null;index" json:"projectId"`
	AnnotatorName       string                  `gorm:"column:annotator_name" json:"annotatorName,omitempty"`
	Status              AnnotationSessionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	TotalDetections     int                     `gorm:"column:total_detections" json:"totalDetections"`
	ValidatedDetections int                     `gorm:"column:validated_detections" json:"validatedDetections"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Video   *Video   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (AnnotationSession) TableName() string {
	return "annotation_sessions"
}

func (s *AnnotationSession) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	if s.Status == "" {
		s.Status = AnnotationSessionActive
	}
	return nil
}
