package store

import "github.com/vrulab/vru-validation/pkg/model"

// AuditLogsStore reads persisted audit events
type AuditLogsStore interface {
	// ListAuditLogs returns events newest first; an empty resourceType lists all
	ListAuditLogs(resourceType string, opts ListOptions) ([]model.AuditLog, error)
}
