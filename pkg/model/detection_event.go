package model

import (
	"time"

	"gorm.io/gorm"
)

// DetectionEvent is one detection reported by the device under test.
type DetectionEvent struct {
	ID               string       `gorm:"column:id;primaryKey" json:"id"`
	TestSessionID    string       `gorm:"column:test_session_id;not null;index" json:"testSessionId"`
	Timestamp        float64      `gorm:"column:timestamp;not null" json:"timestamp"`
	Confidence       float64      `gorm:"column:confidence;not null" json:"confidence"`
	ClassLabel       VRUType      `gorm:"column:class_label;type:varchar(64);not null" json:"classLabel"`
	BoundingBox      *BoundingBox `gorm:"column:bounding_box;type:text" json:"boundingBox,omitempty"`
	FrameNumber      *int         `gorm:"column:frame_number" json:"frameNumber,omitempty"`
	ValidationResult *MatchType   `gorm:"column:validation_result;type:varchar(8)" json:"validationResult,omitempty"`
	CreatedAt        time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	TestSession *TestSession `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (DetectionEvent) TableName() string {
	return "detection_events"
}

func (e *DetectionEvent) BeforeCreate(tx *gorm.DB) error {
	e.ID = newID(e.ID)
	return nil
}

// Validate checks the ranges a detection event must satisfy.
func (e *DetectionEvent) Validate() error {
	if err := ValidateTimestamp("timestamp", e.Timestamp); err != nil {
		return err
	}
	if err := ValidateConfidence("confidence", e.Confidence); err != nil {
		return err
	}
	if e.FrameNumber != nil && *e.FrameNumber < 0 {
		return &ValidationError{Field: "frameNumber", Message: "must not be negative"}
	}
	if e.BoundingBox != nil {
		return e.BoundingBox.Validate()
	}
	return nil
}
