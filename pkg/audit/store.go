package audit

import (
	"encoding/json"
	"os"

	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
)

// Store persists audit events to the audit_logs table
type Store struct {
	db       *gorm.DB
	hostname string
}

// NewStore creates a store on an open database
func NewStore(db *gorm.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname}
}

// Save persists an audit event to the database
func (s *Store) Save(event Event) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Create(toAuditLog(event, s.hostname)).Error
}

func toAuditLog(event Event, hostname string) *model.AuditLog {
	sd := event.StructuredData()
	sdata, _ := json.Marshal(sd)

	return &model.AuditLog{
		UserID:       sd[SDIDAuth]["user"],
		Action:       actionOf(event, sd),
		ResourceType: sd[SDIDSubject]["type"],
		ResourceID:   sd[SDIDSubject]["id"],
		Message:      event.Message(),
		Facility:     event.Facility(),
		Severity:     int(event.Severity()),
		ClientIP:     sd[SDIDClient]["ip"],
		Hostname:     hostname,
		SData:        string(sdata),
	}
}

func actionOf(event Event, sd map[string]map[string]string) string {
	if op := sd[SDIDAction]["operation"]; op != "" {
		return op
	}
	return event.MessageID()
}
