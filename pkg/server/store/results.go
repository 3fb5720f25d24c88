package store

import "github.com/vrulab/vru-validation/pkg/model"

// ValidationRun is everything one validation writes.
type ValidationRun struct {
	Result      *model.TestResult
	Comparisons []model.DetectionComparison

	// DetectionResults maps detection event ID to its TP/FP outcome
	DetectionResults map[string]model.MatchType
}

// ResultsStore abstracts validation result storage operations
type ResultsStore interface {
	// SaveValidationRun stores the run, marks the detection events and
	// completes the session, all in one transaction
	SaveValidationRun(sessionID string, run *ValidationRun) error

	// LatestResult returns ErrNotFound if the session was never validated
	LatestResult(sessionID string) (*model.TestResult, []model.DetectionComparison, error)
}
