package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// Service validates stored test sessions.
type Service struct {
	sessions    store.TestSessionsStore
	groundTruth store.GroundTruthStore
	annotations store.AnnotationsStore
	events      store.DetectionEventsStore
	results     store.ResultsStore

	// MatchClass and MinIoU are passed to Validate for every session.
	MatchClass bool
	MinIoU     float64
}

// NewService creates a Service over the given stores
func NewService(
	sessions store.TestSessionsStore,
	groundTruth store.GroundTruthStore,
	annotations store.AnnotationsStore,
	events store.DetectionEventsStore,
	results store.ResultsStore,
) *Service {
	return &Service{
		sessions:    sessions,
		groundTruth: groundTruth,
		annotations: annotations,
		events:      events,
		results:     results,
	}
}

// Outcome is what ValidateTestSession stored.
type Outcome struct {
	Session     *model.TestSession
	Result      *model.TestResult
	Comparisons []model.DetectionComparison
}

// ValidateTestSession scores a session's detection events against the
// ground truth of its video and stores the result. Validated ground truth
// objects take precedence; validated annotations are used when a video has
// none. Unvalidated detector candidates are never used as reference.
func (s *Service) ValidateTestSession(ctx context.Context, sessionID string) (*Outcome, error) {
	session, err := s.sessions.FetchTestSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching test session: %w", err)
	}

	groundTruth, err := s.groundTruthPoints(session.VideoID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListDetectionEvents(sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing detection events: %w", err)
	}
	detections := make([]Point, 0, len(events))
	for _, e := range events {
		detections = append(detections, Point{ID: e.ID, Timestamp: e.Timestamp, Class: e.ClassLabel, Box: e.BoundingBox})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := Validate(groundTruth, detections, Options{
		Tolerance:  session.Tolerance(),
		MatchClass: s.MatchClass,
		MinIoU:     s.MinIoU,
	})

	run := newValidationRun(session, res)
	if err := s.results.SaveValidationRun(sessionID, run); err != nil {
		return nil, fmt.Errorf("saving validation result: %w", err)
	}

	// reflect what SaveValidationRun wrote
	session.Status = model.SessionStatusCompleted
	completed := time.Now().UTC()
	session.CompletedAt = &completed

	return &Outcome{Session: session, Result: run.Result, Comparisons: run.Comparisons}, nil
}

func (s *Service) groundTruthPoints(videoID string) ([]Point, error) {
	objects, err := s.groundTruth.ListGroundTruth(videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("listing ground truth: %w", err)
	}
	points := make([]Point, 0, len(objects))
	for _, o := range objects {
		if !o.Validated {
			continue
		}
		points = append(points, Point{ID: o.ID, Timestamp: o.Timestamp, Class: o.ClassLabel, Box: o.BoundingBox, Source: SourceGroundTruth})
	}
	if len(points) > 0 {
		return points, nil
	}

	validated := true
	annotations, err := s.annotations.ListAnnotations(videoID, store.AnnotationFilter{Validated: &validated})
	if err != nil {
		return nil, fmt.Errorf("listing annotations: %w", err)
	}
	for _, a := range annotations {
		box := a.BoundingBox
		points = append(points, Point{ID: a.ID, Timestamp: a.Timestamp, Class: a.VRUType, Box: &box, Source: SourceAnnotation})
	}
	return points, nil
}

func newValidationRun(session *model.TestSession, res Result) *store.ValidationRun {
	m := res.Metrics
	run := &store.ValidationRun{
		Result: &model.TestResult{
			TestSessionID:     session.ID,
			ToleranceMs:       session.ToleranceMs,
			TruePositives:     m.TruePositives,
			FalsePositives:    m.FalsePositives,
			FalseNegatives:    m.FalseNegatives,
			Precision:         m.Precision,
			Recall:            m.Recall,
			F1Score:           m.F1Score,
			Accuracy:          m.Accuracy,
			MeanTimingError:   m.MeanTimingError,
			TimingErrorStdDev: m.TimingErrorStdDev,
		},
		Comparisons:      make([]model.DetectionComparison, 0, len(res.Comparisons)),
		DetectionResults: map[string]model.MatchType{},
	}

	for _, c := range res.Comparisons {
		row := model.DetectionComparison{
			TestSessionID:  session.ID,
			MatchType:      c.MatchType,
			TimeDifference: c.TimeDifference,
			IoU:            c.IoU,
		}
		if c.GroundTruthID != "" {
			id := c.GroundTruthID
			if c.Source == SourceAnnotation {
				row.AnnotationID = &id
			} else {
				row.GroundTruthID = &id
			}
		}
		if c.DetectionID != "" {
			id := c.DetectionID
			row.DetectionEventID = &id
			run.DetectionResults[id] = c.MatchType
		}
		run.Comparisons = append(run.Comparisons, row)
	}
	return run
}
