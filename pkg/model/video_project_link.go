package model

import (
	"time"

	"gorm.io/gorm"
)

// VideoProjectLink assigns an existing video to an additional project.
type VideoProjectLink struct {
	ID               string    `gorm:"column:id;primaryKey" json:"id"`
	VideoID          string    `gorm:"column:video_id;not null;uniqueIndex:idx_video_project" json:"videoId"`
	ProjectID        string    `gorm:"column:project_id;not null;uniqueIndex:idx_video_project" json:"projectId"`
	AssignmentReason string    `gorm:"column:assignment_reason" json:"assignmentReason,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Video   *Video   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (VideoProjectLink) TableName() string {
	return "video_project_links"
}

func (l *VideoProjectLink) BeforeCreate(tx *gorm.DB) error {
	l.ID = newID(l.ID)
	return nil
}
