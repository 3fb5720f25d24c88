package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultToleranceMs is the matching window used when a session does not set one.
const DefaultToleranceMs = 100

// TestSession is one run of a device under test against a video.
type TestSession struct {
	ID          string        `gorm:"column:id;primaryKey" json:"id"`
	Name        string        `gorm:"column:name;not null" json:"name"`
	ProjectID   string        `gorm:"column:project_id;not null;index" json:"projectId"`
	VideoID     string        `gorm:"column:video_id;not null;index" json:"videoId"`
	ToleranceMs int           `gorm:"column:tolerance_ms;not null" json:"toleranceMs"`
	Status      SessionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	StartedAt   *time.Time    `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time    `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Video   *Video   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

func (s *TestSession) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	if s.Status == "" {
		s.Status = SessionStatusCreated
	}
	if s.ToleranceMs == 0 {
		s.ToleranceMs = DefaultToleranceMs
	}
	return nil
}

// Tolerance returns the matching window as a duration.
func (s *TestSession) Tolerance() time.Duration {
	return time.Duration(s.ToleranceMs) * time.Millisecond
}

// AcceptsDetections reports whether detection events may still be recorded.
func (s *TestSession) AcceptsDetections() bool {
	return s.Status == SessionStatusCreated || s.Status == SessionStatusRunning
}

// Validate checks the name and matching window of a session.
func (s *TestSession) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if s.ProjectID == "" {
		return &ValidationError{Field: "projectId", Message: "is required"}
	}
	if s.VideoID == "" {
		return &ValidationError{Field: "videoId", Message: "is required"}
	}
	if s.ToleranceMs < 0 {
		return &ValidationError{Field: "toleranceMs", Message: "must be positive"}
	}
	return nil
}
