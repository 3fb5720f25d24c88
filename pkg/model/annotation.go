package model

import (
	"time"

	"gorm.io/gorm"
)

// Annotation is a manually labelled VRU on a video frame or time span.
type Annotation struct {
	ID                  string      `gorm:"column:id;primaryKey" json:"id"`
	VideoID             string      `gorm:"column:video_id;not null;index" json:"videoId"`
	AnnotationSessionID *string     `gorm:"column:annotation_session_id" json:"annotationSessionId,omitempty"`
	DetectionID         string      `gorm:"column:detection_id" json:"detectionId,omitempty"`
	FrameNumber         int         `gorm:"column:frame_number" json:"frameNumber"`
	Timestamp           float64     `gorm:"column:timestamp;not null" json:"timestamp"`
	EndTimestamp        *float64    `gorm:"column:end_timestamp" json:"endTimestamp,omitempty"`
	VRUType             VRUType     `gorm:"column:vru_type;type:varchar(64);not null" json:"vruType"`
	BoundingBox         BoundingBox `gorm:"column:bounding_box;type:text;not null" json:"boundingBox"`
	Occluded            bool        `gorm:"column:occluded" json:"occluded"`
	Truncated           bool        `gorm:"column:truncated" json:"truncated"`
	Difficult           bool        `gorm:"column:difficult" json:"difficult"`
	Notes               string      `gorm:"column:notes" json:"notes,omitempty"`
	Annotator           string      `gorm:"column:annotator" json:"annotator,omitempty"`
	Validated           bool        `gorm:"column:validated" json:"validated"`
	CreatedAt           time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Annotation) TableName() string {
	return "annotations"
}

func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	a.ID = newID(a.ID)
	return nil
}

// Validate checks ranges and the time span of an annotation.
func (a *Annotation) Validate() error {
	if err := ValidateTimestamp("timestamp", a.Timestamp); err != nil {
		return err
	}
	if a.EndTimestamp != nil && *a.EndTimestamp < a.Timestamp {
		return &ValidationError{Field: "endTimestamp", Message: "must not precede timestamp"}
	}
	if a.FrameNumber < 0 {
		return &ValidationError{Field: "frameNumber", Message: "must not be negative"}
	}
	if !a.VRUType.IsAVRUType() {
		return &ValidationError{Field: "vruType", Message: "unknown VRU type"}
	}
	return a.BoundingBox.Validate()
}
