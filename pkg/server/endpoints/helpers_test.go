package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/detector"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store/storetest"
)

type fakeDetector struct {
	healthy bool
}

func (d fakeDetector) Detect(ctx context.Context, videoPath string, opts detector.Options) ([]detector.Detection, error) {
	return nil, detector.ErrUnavailable
}

func (d fakeDetector) Healthy(ctx context.Context) bool {
	return d.healthy
}

// testEnv is a server with every store mocked
type testEnv struct {
	server  *server.Server
	handler http.Handler

	projects    *storetest.MockProjectsStore
	videos      *storetest.MockVideosStore
	groundTruth *storetest.MockGroundTruthStore
	annotations *storetest.MockAnnotationsStore
	sessions    *storetest.MockTestSessionsStore
	detections  *storetest.MockDetectionEventsStore
	results     *storetest.MockResultsStore
	dashboard   *storetest.MockDashboardStore
	auditLogs   *storetest.MockAuditLogsStore
	health      *storetest.MockHealthStore
}

func newTestEnv(t *testing.T, configure ...func(cfg *config.VRUConfig)) *testEnv {
	t.Helper()
	audit.SetEnabled(false)

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()
	for _, fn := range configure {
		fn(cfg)
	}

	env := &testEnv{
		projects:    &storetest.MockProjectsStore{},
		videos:      &storetest.MockVideosStore{},
		groundTruth: &storetest.MockGroundTruthStore{},
		annotations: &storetest.MockAnnotationsStore{},
		sessions:    &storetest.MockTestSessionsStore{},
		detections:  &storetest.MockDetectionEventsStore{},
		results:     &storetest.MockResultsStore{},
		dashboard:   &storetest.MockDashboardStore{},
		auditLogs:   &storetest.MockAuditLogsStore{},
		health:      &storetest.MockHealthStore{},
	}

	s, err := server.NewServer(cfg, server.Stores{
		ProjectsStore:        env.projects,
		VideosStore:          env.videos,
		GroundTruthStore:     env.groundTruth,
		AnnotationsStore:     env.annotations,
		TestSessionsStore:    env.sessions,
		DetectionEventsStore: env.detections,
		ResultsStore:         env.results,
		DashboardStore:       env.dashboard,
		AuditLogsStore:       env.auditLogs,
		HealthStore:          env.health,
	}, "127.0.0.1", "0")
	require.NoError(t, err)
	s.Detector = fakeDetector{healthy: true}

	RegisterAll(s)
	env.server = s
	env.handler = s.Handler()

	t.Cleanup(func() {
		env.projects.AssertExpectations(t)
		env.videos.AssertExpectations(t)
		env.groundTruth.AssertExpectations(t)
		env.annotations.AssertExpectations(t)
		env.sessions.AssertExpectations(t)
		env.detections.AssertExpectations(t)
		env.results.AssertExpectations(t)
		env.dashboard.AssertExpectations(t)
		env.auditLogs.AssertExpectations(t)
		env.health.AssertExpectations(t)
	})
	return env
}

// do sends body as JSON unless it is a string or nil
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeResponse(t, w, &body)
	return body.Error.Message
}
