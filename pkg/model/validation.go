package model

import "fmt"

// ValidationError reports an invalid field in a create or update request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfidence checks a detector confidence lies in [0, 1].
func ValidateConfidence(field string, confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return &ValidationError{Field: field, Message: "must be between 0 and 1"}
	}
	return nil
}

// ValidateTimestamp checks a video timestamp (seconds) is not negative.
func ValidateTimestamp(field string, timestamp float64) error {
	if timestamp < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}
