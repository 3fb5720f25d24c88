package detector

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/model"
)

const baseURL = "http://detector.test"

func setupClient(t *testing.T) *Client {
	t.Helper()
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient(baseURL+"/", httpClient)
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o600))
	return path
}

const detectResponseBody = `{
  "detections": [
    {"frame": 3, "timestamp": 0.1, "class": "person", "confidence": 0.91, "bbox": {"x": 10, "y": 20, "width": 30, "height": 60}},
    {"frame": 4, "timestamp": 0.13, "class": "car", "confidence": 0.88, "bbox": {"x": 0, "y": 0, "width": 100, "height": 50}},
    {"frame": 9, "timestamp": 0.3, "class": "Bicycle", "confidence": 0.55, "bbox": {"x": 5, "y": 5, "width": 20, "height": 20}}
  ]
}`

func TestDetect(t *testing.T) {
	client := setupClient(t)
	video := writeVideo(t)

	httpmock.RegisterResponder("POST", baseURL+"/detect/video",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))
			assert.Equal(t, "0.4", req.FormValue("confidence"))
			assert.Equal(t, "person,bicycle,motorcycle", req.FormValue("classes"))

			_, header, err := req.FormFile("file")
			require.NoError(t, err)
			assert.Equal(t, "clip.mp4", header.Filename)

			return httpmock.NewStringResponse(http.StatusOK, detectResponseBody), nil
		})

	detections, err := client.Detect(context.Background(), video, Options{Confidence: 0.4})
	require.NoError(t, err)
	require.Len(t, detections, 2)

	assert.Equal(t, Detection{
		Frame:      3,
		Timestamp:  0.1,
		Class:      model.VRUTypePedestrian,
		Confidence: 0.91,
		Box:        model.BoundingBox{X: 10, Y: 20, Width: 30, Height: 60, Label: "person"},
	}, detections[0])
	assert.Equal(t, model.VRUTypeCyclist, detections[1].Class)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestDetect_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		unavailable bool
	}{
		{name: "server error", status: http.StatusBadGateway, body: "", unavailable: true},
		{name: "bad request", status: http.StatusBadRequest, body: "unsupported codec"},
		{name: "bad json", status: http.StatusOK, body: "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupClient(t)
			httpmock.RegisterResponder("POST", baseURL+"/detect/video",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := client.Detect(context.Background(), writeVideo(t), Options{})
			require.Error(t, err)
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestDetect_MissingFile(t *testing.T) {
	client := setupClient(t)

	_, err := client.Detect(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), Options{})
	require.Error(t, err)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestDetect_TransportError(t *testing.T) {
	client := setupClient(t)
	httpmock.RegisterResponder("POST", baseURL+"/detect/video",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.Detect(context.Background(), writeVideo(t), Options{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHealthy(t *testing.T) {
	client := setupClient(t)

	httpmock.RegisterResponder("GET", baseURL+"/health", httpmock.NewStringResponder(http.StatusOK, `{"status":"ok"}`))
	assert.True(t, client.Healthy(context.Background()))

	httpmock.RegisterResponder("GET", baseURL+"/health", httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))
	assert.False(t, client.Healthy(context.Background()))
}

func TestClassToVRU(t *testing.T) {
	tests := []struct {
		class string
		want  model.VRUType
		ok    bool
	}{
		{"person", model.VRUTypePedestrian, true},
		{"bicycle", model.VRUTypeCyclist, true},
		{"MOTORCYCLE", model.VRUTypeMotorcyclist, true},
		{"truck", 0, false},
	}
	for _, tt := range tests {
		got, ok := ClassToVRU(tt.class)
		assert.Equal(t, tt.ok, ok, tt.class)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.class)
		}
	}
}
