package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Project groups the videos and test sessions of one camera/signal setup.
type Project struct {
	ID          string        `gorm:"column:id;primaryKey" json:"id"`
	Name        string        `gorm:"column:name;not null" json:"name"`
	Description string        `gorm:"column:description" json:"description"`
	CameraModel string        `gorm:"column:camera_model;not null" json:"cameraModel"`
	CameraView  CameraView    `gorm:"column:camera_view;type:varchar(64);not null" json:"cameraView"`
	SignalType  SignalType    `gorm:"column:signal_type;type:varchar(64);not null" json:"signalType"`
	Status      ProjectStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	p.ID = newID(p.ID)
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
	return nil
}

// Validate checks the name and enum fields of a project.
func (p *Project) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" || len(name) > 255 {
		return &ValidationError{Field: "name", Message: "must be between 1 and 255 characters"}
	}
	if p.CameraModel == "" {
		return &ValidationError{Field: "cameraModel", Message: "is required"}
	}
	if !p.CameraView.IsACameraView() {
		return &ValidationError{Field: "cameraView", Message: "unknown camera view"}
	}
	if !p.SignalType.IsASignalType() {
		return &ValidationError{Field: "signalType", Message: "unknown signal type"}
	}
	if p.Status != "" && !p.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "unknown project status"}
	}
	return nil
}
