package model

import (
	"time"

	"gorm.io/gorm"
)

// GroundTruthObject is a reference VRU appearance used to score detector
// output. Objects produced by the detection pipeline start unvalidated.
type GroundTruthObject struct {
	ID          string       `gorm:"column:id;primaryKey" json:"id"`
	VideoID     string       `gorm:"column:video_id;not null;index" json:"videoId"`
	FrameNumber int          `gorm:"column:frame_number" json:"frameNumber"`
	Timestamp   float64      `gorm:"column:timestamp;not null" json:"timestamp"`
	ClassLabel  VRUType      `gorm:"column:class_label;type:varchar(64);not null" json:"classLabel"`
	BoundingBox *BoundingBox `gorm:"column:bounding_box;type:text" json:"boundingBox,omitempty"`
	Confidence  *float64     `gorm:"column:confidence" json:"confidence,omitempty"`
	Validated   bool         `gorm:"column:validated" json:"validated"`
	Difficult   bool         `gorm:"column:difficult" json:"difficult"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Video *Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (GroundTruthObject) TableName() string {
	return "ground_truth_objects"
}

func (g *GroundTruthObject) BeforeCreate(tx *gorm.DB) error {
	g.ID = newID(g.ID)
	return nil
}

// Validate checks the ranges a ground truth row must satisfy.
func (g *GroundTruthObject) Validate() error {
	if err := ValidateTimestamp("timestamp", g.Timestamp); err != nil {
		return err
	}
	if g.FrameNumber < 0 {
		return &ValidationError{Field: "frameNumber", Message: "must not be negative"}
	}
	if g.Confidence != nil {
		if err := ValidateConfidence("confidence", *g.Confidence); err != nil {
			return err
		}
	}
	if g.BoundingBox != nil {
		return g.BoundingBox.Validate()
	}
	return nil
}
