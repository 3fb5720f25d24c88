package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.AuditLogsStore = (*AuditLogsStore)(nil)

// AuditLogsStore implements store.AuditLogsStore using GORM
type AuditLogsStore struct {
	db *gorm.DB
}

// NewAuditLogsStore creates a new AuditLogsStore
func NewAuditLogsStore(db *gorm.DB) *AuditLogsStore {
	return &AuditLogsStore{db: db}
}

func (s *AuditLogsStore) ListAuditLogs(resourceType string, opts store.ListOptions) ([]model.AuditLog, error) {
	query := s.db.Order("created_at desc")
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	logs := []model.AuditLog{}
	err := paginate(query, opts).Find(&logs).Error
	return logs, err
}
