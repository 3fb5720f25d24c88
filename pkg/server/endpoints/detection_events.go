package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/metrics"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

type detectionEventRequest struct {
	TestSessionID string             `json:"testSessionId"`
	Timestamp     *float64           `json:"timestamp"`
	Confidence    *float64           `json:"confidence"`
	ClassLabel    *model.VRUType     `json:"classLabel"`
	BoundingBox   *model.BoundingBox `json:"boundingBox"`
	FrameNumber   *int               `json:"frameNumber"`
}

func (req detectionEventRequest) toModel() (*model.DetectionEvent, error) {
	switch {
	case req.TestSessionID == "":
		return nil, &model.ValidationError{Field: "testSessionId", Message: "is required"}
	case req.Timestamp == nil:
		return nil, &model.ValidationError{Field: "timestamp", Message: "is required"}
	case req.Confidence == nil:
		return nil, &model.ValidationError{Field: "confidence", Message: "is required"}
	case req.ClassLabel == nil:
		return nil, &model.ValidationError{Field: "classLabel", Message: "is required"}
	}

	e := &model.DetectionEvent{
		TestSessionID: req.TestSessionID,
		Timestamp:     *req.Timestamp,
		Confidence:    *req.Confidence,
		ClassLabel:    *req.ClassLabel,
		BoundingBox:   req.BoundingBox,
		FrameNumber:   req.FrameNumber,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// RegisterDetectionEventsEndpoints registers the detection event endpoints
func RegisterDetectionEventsEndpoints(s *server.Server) {
	sessionsStore := s.TestSessionsStore
	eventsStore := s.DetectionEventsStore

	// POST /api/detection-events - Record a detection from the device under test
	s.API.HandleFunc("/detection-events", handleCreateDetectionEvent(sessionsStore, eventsStore, s.Metrics, s.Hub, s.InvalidateStats)).Methods("POST")

	// POST /api/test-sessions/{id}/detection-events - Same, session taken from the path
	s.API.HandleFunc("/test-sessions/{id}/detection-events", handleCreateDetectionEvent(sessionsStore, eventsStore, s.Metrics, s.Hub, s.InvalidateStats)).Methods("POST")

	// GET /api/test-sessions/{id}/detection-events - List a session's detections
	s.API.HandleFunc("/test-sessions/{id}/detection-events", handleListDetectionEvents(sessionsStore, eventsStore)).Methods("GET")
}

func handleCreateDetectionEvent(
	sessionsStore store.TestSessionsStore,
	eventsStore store.DetectionEventsStore,
	m *metrics.Metrics,
	pub events.Publisher,
	invalidate func(),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req detectionEventRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "detection event")
			return
		}
		if id, ok := mux.Vars(r)["id"]; ok {
			req.TestSessionID = id
		}

		event, err := req.toModel()
		if err != nil {
			respondWithStoreError(w, err, "detection event")
			return
		}

		session, err := sessionsStore.FetchTestSession(event.TestSessionID)
		if err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}
		if !session.AcceptsDetections() {
			respondWithStoreError(w, conflict("test session is "+string(session.Status)+" and no longer accepts detections"), "detection event")
			return
		}

		err = eventsStore.CreateDetectionEvent(event)
		auditResource(r, "detection_event", event.ID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "detection event")
			return
		}
		m.RecordDetectionEvents("api", 1)
		invalidate()
		pub.Publish(events.DetectionEvent, event)

		respondWithJSON(w, http.StatusCreated, event)
	}
}

func handleListDetectionEvents(sessionsStore store.TestSessionsStore, eventsStore store.DetectionEventsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if _, err := sessionsStore.FetchTestSession(id); err != nil {
			respondWithStoreError(w, err, "test session")
			return
		}

		detections, err := eventsStore.ListDetectionEvents(id)
		if err != nil {
			respondWithStoreError(w, err, "detection event")
			return
		}
		if detections == nil {
			detections = []model.DetectionEvent{}
		}
		respondWithJSON(w, http.StatusOK, detections)
	}
}
