package model

import (
	"time"

	"gorm.io/gorm"
)

// TestResult holds the confusion-matrix metrics of one validation run.
type TestResult struct {
	ID                string    `gorm:"column:id;primaryKey" json:"id"`
	TestSessionID     string    `gorm:"column:test_session_id;not null;index" json:"testSessionId"`
	ToleranceMs       int       `gorm:"column:tolerance_ms" json:"toleranceMs"`
	TruePositives     int       `gorm:"column:true_positives" json:"truePositives"`
	FalsePositives    int       `gorm:"column:false_positives" json:"falsePositives"`
	FalseNegatives    int       `gorm:"column:false_negatives" json:"falseNegatives"`
	Precision         float64   `gorm:"column:precision" json:"precision"`
	Recall            float64   `gorm:"column:recall" json:"recall"`
	F1Score           float64   `gorm:"column:f1_score" json:"f1Score"`
	Accuracy          float64   `gorm:"column:accuracy" json:"accuracy"`
	MeanTimingError   float64   `gorm:"column:mean_timing_error" json:"meanTimingError"`
	TimingErrorStdDev float64   `gorm:"column:timing_error_std_dev" json:"timingErrorStdDev"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	TestSession *TestSession `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (TestResult) TableName() string {
	return "test_results"
}

func (r *TestResult) BeforeCreate(tx *gorm.DB) error {
	r.ID = newID(r.ID)
	return nil
}
