package model

import (
	"github.com/google/uuid"
)

// newID returns id unchanged, or a fresh UUID when it is empty
func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// IsValidID reports whether id parses as a UUID.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// All returns every model, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Project{},
		&Video{},
		&VideoProjectLink{},
		&GroundTruthObject{},
		&AnnotationSession{},
		&Annotation{},
		&TestSession{},
		&DetectionEvent{},
		&TestResult{},
		&DetectionComparison{},
		&AuditLog{},
	}
}
