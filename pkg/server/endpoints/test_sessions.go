package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/identity"
	"github.com/vrulab/vru-validation/pkg/metrics"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/report"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
	"github.com/vrulab/vru-validation/pkg/validation"
)

type testSessionRequest struct {
	Name        string `json:"name"`
	ProjectID   string `json:"projectId"`
	VideoID     string `json:"videoId"`
	ToleranceMs int    `json:"toleranceMs"`
}

// sessionUpdate is the payload of test_session_update events
type sessionUpdate struct {
	Session *model.TestSession `json:"session"`
	Result  *model.TestResult  `json:"result,omitempty"`
}

// resultsResponse is the body of GET /api/test-sessions/{id}/results
type resultsResponse struct {
	Session     *model.TestSession          `json:"session"`
	Result      *model.TestResult           `json:"result"`
	Comparisons []model.DetectionComparison `json:"comparisons"`
}

// RegisterTestSessionsEndpoints registers the test session endpoints
func RegisterTestSessionsEndpoints(s *server.Server) {
	sessionsStore := s.TestSessionsStore

	// POST /api/test-sessions - Create test session
	s.API.HandleFunc("/test-sessions", handleCreateTestSession(s.ProjectsStore, s.VideosStore, sessionsStore, s.Config, s.InvalidateStats)).Methods("POST")

	// GET /api/test-sessions - List test sessions (?projectId=)
	s.API.HandleFunc("/test-sessions", handleListTestSessions(sessionsStore, s.Config)).Methods("GET")

	// GET /api/test-sessions/{id} - Get test session
	s.API.HandleFunc("/test-sessions/{id}", handleGetTestSession(sessionsStore)).Methods("GET")

	// DELETE /api/test-sessions/{id} - Delete test session
	s.API.HandleFunc("/test-sessions/{id}", handleDeleteTestSession(sessionsStore, s.InvalidateStats)).Methods("DELETE")

	// POST /api/test-sessions/{id}/start - Move a created session to running
	s.API.HandleFunc("/test-sessions/{id}/start", handleStartTestSession(sessionsStore, s.Hub)).Methods("POST")

	// POST /api/test-sessions/{id}/validate - Score detections against ground truth
	s.API.HandleFunc("/test-sessions/{id}/validate", handleValidateTestSession(s.Validation, s.Metrics, s.Hub, s.InvalidateStats)).Methods("POST")

	// GET /api/test-sessions/{id}/results - Latest result and comparisons
	s.API.HandleFunc("/test-sessions/{id}/results", handleTestSessionResults(sessionsStore, s.ResultsStore)).Methods("GET")

	// GET /api/test-sessions/{id}/report - Markdown or HTML report (?format=md|html)
	s.API.HandleFunc("/test-sessions/{id}/report", handleTestSessionReport(s.ProjectsStore, sessionsStore, s.ResultsStore)).Methods("GET")
}

func handleCreateTestSession(
	projectsStore store.ProjectsStore,
	videosStore store.VideosStore,
	sessionsStore store.TestSessionsStore,
	cfg *config.VRUConfig,
	invalidate func(),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}

		session := &model.TestSession{
			Name:        req.Name,
			ProjectID:   req.ProjectID,
			VideoID:     req.VideoID,
			ToleranceMs: req.ToleranceMs,
			Status:      model.SessionStatusCreated,
		}
		if err := session.Validate(); err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		if session.ToleranceMs == 0 {
			session.ToleranceMs = cfg.DefaultToleranceMs
		}

		if _, err := projectsStore.FetchProject(session.ProjectID); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		if _, err := videosStore.FetchVideo(session.VideoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		err := sessionsStore.CreateTestSession(session)
		auditResource(r, "test_session", session.ID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		invalidate()

		respondWithJSON(w, http.StatusCreated, session)
	}
}

func handleListTestSessions(sessionsStore store.TestSessionsStore, cfg *config.VRUConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r, cfg)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}

		sessions, err := sessionsStore.ListTestSessions(r.URL.Query().Get("projectId"), opts)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		if sessions == nil {
			sessions = []model.TestSession{}
		}
		respondWithJSON(w, http.StatusOK, sessions)
	}
}

func handleGetTestSession(sessionsStore store.TestSessionsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionsStore.FetchTestSession(mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		respondWithJSON(w, http.StatusOK, session)
	}
}

func handleDeleteTestSession(sessionsStore store.TestSessionsStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		err := sessionsStore.DeleteTestSession(id)
		auditResource(r, "test_session", id, audit.OperationDelete, err)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		invalidate()

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStartTestSession(sessionsStore store.TestSessionsStore, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		session, err := sessionsStore.FetchTestSession(id)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		if session.Status != model.SessionStatusCreated {
			respondWithStoreError(w, conflict("test session is already "+string(session.Status)), "test session")
			return
		}

		now := time.Now().UTC()
		err = sessionsStore.StartTestSession(id, now)
		auditResource(r, "test_session", id, audit.OperationStart, err)
		if errors.Is(err, store.ErrConflict) {
			// lost a race with another start or a validation
			if current, fetchErr := sessionsStore.FetchTestSession(id); fetchErr == nil {
				session = current
			}
			respondWithStoreError(w, conflict("test session is already "+string(session.Status)), "test session")
			return
		}
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		session.Status = model.SessionStatusRunning
		session.StartedAt = &now

		pub.Publish(events.TestSessionUpdate, sessionUpdate{Session: session})

		respondWithJSON(w, http.StatusOK, session)
	}
}

func handleValidateTestSession(svc *validation.Service, m *metrics.Metrics, pub events.Publisher, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		caller := identity.FromRequest(r)

		start := time.Now()
		outcome, err := svc.ValidateTestSession(r.Context(), id)

		event := audit.ValidationEvent{
			UserID:        caller.UserID,
			ClientIP:      caller.ClientIP(),
			TestSessionID: id,
			Success:       err == nil,
		}
		if err != nil {
			m.RecordValidation(time.Since(start), 0, err)
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(w, err, "test session")
			return
		}

		result := outcome.Result
		m.RecordValidation(time.Since(start), result.F1Score, nil)
		event.TruePositives = result.TruePositives
		event.FalsePositives = result.FalsePositives
		event.FalseNegatives = result.FalseNegatives
		event.F1Score = result.F1Score
		audit.Log(event)

		invalidate()
		pub.Publish(events.TestSessionUpdate, sessionUpdate{Session: outcome.Session, Result: result})

		respondWithJSON(w, http.StatusOK, resultsResponse{
			Session:     outcome.Session,
			Result:      result,
			Comparisons: outcome.Comparisons,
		})
	}
}

func handleTestSessionResults(sessionsStore store.TestSessionsStore, resultsStore store.ResultsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		session, err := sessionsStore.FetchTestSession(id)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}

		result, comparisons, err := resultsStore.LatestResult(id)
		if err != nil {
			respondWithStoreError(w, err, "test result")
			return
		}
		if comparisons == nil {
			comparisons = []model.DetectionComparison{}
		}

		respondWithJSON(w, http.StatusOK, resultsResponse{Session: session, Result: result, Comparisons: comparisons})
	}
}

func handleTestSessionReport(projectsStore store.ProjectsStore, sessionsStore store.TestSessionsStore, resultsStore store.ResultsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		format, err := report.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respondWithStoreError(w, badRequest(err.Error()), "report")
			return
		}

		session, err := sessionsStore.FetchTestSession(id)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}

		rep := report.Report{Session: *session}
		if project, err := projectsStore.FetchProject(session.ProjectID); err == nil {
			rep.Project = project
		} else if !errors.Is(err, store.ErrNotFound) {
			respondWithStoreError(w, err, "project")
			return
		}

		result, comparisons, err := resultsStore.LatestResult(id)
		switch {
		case err == nil:
			rep.Result = result
			rep.Comparisons = comparisons
		case !errors.Is(err, store.ErrNotFound):
			respondWithStoreError(w, err, "test result")
			return
		}

		body, err := report.Render(rep, format)
		if err != nil {
			respondWithStoreError(w, err, "report")
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
