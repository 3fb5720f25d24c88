package model

import (
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AllowedVideoExtensions lists the container formats accepted on upload.
var AllowedVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

// Video is an uploaded recording. ProjectID is the owning project; further
// projects are attached through VideoProjectLink.
type Video struct {
	ID                   string      `gorm:"column:id;primaryKey" json:"id"`
	ProjectID            string      `gorm:"column:project_id;not null;index" json:"projectId"`
	Filename             string      `gorm:"column:filename;not null" json:"filename"`
	OriginalName         string      `gorm:"column:original_name" json:"originalName"`
	FilePath             string      `gorm:"column:file_path;not null" json:"filePath"`
	FileSize             int64       `gorm:"column:file_size" json:"fileSize"`
	Duration             *float64    `gorm:"column:duration" json:"duration,omitempty"`
	FPS                  *float64    `gorm:"column:fps" json:"fps,omitempty"`
	Resolution           string      `gorm:"column:resolution" json:"resolution,omitempty"`
	Status               VideoStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	ProcessingProgress   int         `gorm:"column:processing_progress" json:"processingProgress"`
	ProcessingError      string      `gorm:"column:processing_error" json:"processingError,omitempty"`
	GroundTruthGenerated bool        `gorm:"column:ground_truth_generated" json:"groundTruthGenerated"`
	CreatedAt            time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Project *Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	v.ID = newID(v.ID)
	if v.Status == "" {
		v.Status = VideoStatusUploaded
	}
	return nil
}

// IsAllowedVideoFile reports whether name has an accepted video extension.
func IsAllowedVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
