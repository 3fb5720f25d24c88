package model

import (
	"time"

	"gorm.io/gorm"
)

// DetectionComparison records how a reference point and a detection event
// were paired (TP) or left unmatched (FN / FP). The reference is either a
// ground truth object or, for videos without validated ground truth, a
// validated annotation; at most one of GroundTruthID and AnnotationID is set.
type DetectionComparison struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	TestSessionID    string    `gorm:"column:test_session_id;not null;index" json:"testSessionId"`
	TestResultID     string    `gorm:"column:test_result_id;not null;index" json:"testResultId"`
	GroundTruthID    *string   `gorm:"column:ground_truth_id" json:"groundTruthId,omitempty"`
	AnnotationID     *string   `gorm:"column:annotation_id" json:"annotationId,omitempty"`
	DetectionEventID *string   `gorm:"column:detection_event_id" json:"detectionEventId,omitempty"`
	MatchType        MatchType `gorm:"column:match_type;type:varchar(8);not null" json:"matchType"`
	TimeDifference   *float64  `gorm:"column:time_difference" json:"timeDifference,omitempty"`
	IoU              *float64  `gorm:"column:iou" json:"iou,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	TestResult     *TestResult        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GroundTruth    *GroundTruthObject `gorm:"foreignKey:GroundTruthID;constraint:OnDelete:SET NULL" json:"-"`
	Annotation     *Annotation        `gorm:"foreignKey:AnnotationID;constraint:OnDelete:SET NULL" json:"-"`
	DetectionEvent *DetectionEvent    `gorm:"foreignKey:DetectionEventID;constraint:OnDelete:SET NULL" json:"-"`
}

func (DetectionComparison) TableName() string {
	return "detection_comparisons"
}

// ReferenceID returns the ground truth or annotation id the comparison points at.
func (c DetectionComparison) ReferenceID() *string {
	if c.GroundTruthID != nil {
		return c.GroundTruthID
	}
	return c.AnnotationID
}

func (c *DetectionComparison) BeforeCreate(tx *gorm.DB) error {
	c.ID = newID(c.ID)
	return nil
}
