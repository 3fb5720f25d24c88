package model

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog is a persisted audit event.
type AuditLog struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	UserID       string    `gorm:"column:user_id" json:"userId"`
	Action       string    `gorm:"column:action;not null" json:"action"`
	ResourceType string    `gorm:"column:resource_type;index" json:"resourceType"`
	ResourceID   string    `gorm:"column:resource_id" json:"resourceId"`
	Message      string    `gorm:"column:message" json:"message"`
	Facility     int       `gorm:"column:facility" json:"facility"`
	Severity     int       `gorm:"column:severity" json:"severity"`
	ClientIP     string    `gorm:"column:client_ip" json:"clientIp,omitempty"`
	Hostname     string    `gorm:"column:hostname" json:"hostname,omitempty"`
	SData        string    `gorm:"column:sdata;type:text" json:"sdata,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	l.ID = newID(l.ID)
	return nil
}
