package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/model"
)

func TestCreateDetectionEvent(t *testing.T) {
	env := newTestEnv(t)
	sub := env.server.Hub.Subscribe(4)
	defer env.server.Hub.Unsubscribe(sub)

	env.sessions.On("FetchTestSession", "s1").Return(sampleSession(model.SessionStatusRunning), nil).Twice()
	env.detections.On("CreateDetectionEvent", mock.MatchedBy(func(e *model.DetectionEvent) bool {
		return e.TestSessionID == "s1" && e.ClassLabel == model.VRUTypeCyclist && e.Confidence == 0.8
	})).Return(nil).Twice()

	w := env.do(t, "POST", "/api/detection-events", `{"testSessionId":"s1","timestamp":4.2,"confidence":0.8,"classLabel":"cyclist"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := nextEnvelope(t, sub)
	assert.Equal(t, events.DetectionEvent, got.Type)

	w = env.do(t, "POST", "/api/test-sessions/s1/detection-events", `{"timestamp":4.3,"confidence":0.8,"classLabel":"cyclist"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateDetectionEvent_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing session", `{"timestamp":1,"confidence":0.5,"classLabel":"cyclist"}`, http.StatusUnprocessableEntity},
		{"missing confidence", `{"testSessionId":"s1","timestamp":1,"classLabel":"cyclist"}`, http.StatusUnprocessableEntity},
		{"confidence out of range", `{"testSessionId":"s1","timestamp":1,"confidence":1.2,"classLabel":"cyclist"}`, http.StatusUnprocessableEntity},
		{"negative timestamp", `{"testSessionId":"s1","timestamp":-1,"confidence":0.2,"classLabel":"cyclist"}`, http.StatusUnprocessableEntity},
		{"unknown class", `{"testSessionId":"s1","timestamp":1,"confidence":0.2,"classLabel":"bus"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, "POST", "/api/detection-events", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestCreateDetectionEvent_CompletedSession(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("FetchTestSession", "s1").Return(sampleSession(model.SessionStatusCompleted), nil).Once()

	w := env.do(t, "POST", "/api/detection-events", `{"testSessionId":"s1","timestamp":1,"confidence":0.5,"classLabel":"pedestrian"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListDetectionEvents(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("FetchTestSession", "s1").Return(sampleSession(model.SessionStatusRunning), nil).Once()
	env.detections.On("ListDetectionEvents", "s1").Return(nil, nil).Once()

	w := env.do(t, "GET", "/api/test-sessions/s1/detection-events", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
