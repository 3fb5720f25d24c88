// Package detector talks to the external YOLO inference service that runs
// object detection over uploaded videos.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vrulab/vru-validation/pkg/model"
)

// ErrUnavailable is returned when the inference service cannot be reached
// or answers with a server error.
var ErrUnavailable = errors.New("detector unavailable")

// classMap maps COCO class names onto VRU types. Other classes are dropped.
var classMap = map[string]model.VRUType{
	"person":     model.VRUTypePedestrian,
	"bicycle":    model.VRUTypeCyclist,
	"motorcycle": model.VRUTypeMotorcyclist,
}

// VRUClasses returns the detector class names that map to a VRU type
func VRUClasses() []string {
	return []string{"person", "bicycle", "motorcycle"}
}

// ClassToVRU maps a detector class name to a VRU type
func ClassToVRU(class string) (model.VRUType, bool) {
	t, ok := classMap[strings.ToLower(class)]
	return t, ok
}

// Options tunes a detection request
type Options struct {
	Confidence float64
	Classes    []string
}

// Detection is one VRU found in a video frame
type Detection struct {
	Frame      int
	Timestamp  float64
	Class      model.VRUType
	Confidence float64
	Box        model.BoundingBox
}

// Detector runs object detection over a video file
type Detector interface {
	Detect(ctx context.Context, videoPath string, opts Options) ([]Detection, error)
	Healthy(ctx context.Context) bool
}

// Client is a Detector backed by the inference service HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Detector = (*Client)(nil)

// NewClient creates a client for the service at baseURL. A nil httpClient
// gets a client with a generous timeout, since detection runs over the
// whole video.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type wireBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type wireDetection struct {
	Frame      int     `json:"frame"`
	Timestamp  float64 `json:"timestamp"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       wireBox `json:"bbox"`
}

type detectResponse struct {
	Detections []wireDetection `json:"detections"`
}

// Detect uploads the video and returns the VRU detections, ordered as the
// service returned them.
func (c *Client) Detect(ctx context.Context, videoPath string, opts Options) ([]Detection, error) {
	body, contentType, err := multipartBody(videoPath, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect/video", body)
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("detect: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}

	detections := make([]Detection, 0, len(decoded.Detections))
	for _, d := range decoded.Detections {
		class, ok := ClassToVRU(d.Class)
		if !ok {
			continue
		}
		detections = append(detections, Detection{
			Frame:      d.Frame,
			Timestamp:  d.Timestamp,
			Class:      class,
			Confidence: d.Confidence,
			Box: model.BoundingBox{
				X:      d.BBox.X,
				Y:      d.BBox.Y,
				Width:  d.BBox.Width,
				Height: d.BBox.Height,
				Label:  d.Class,
			},
		})
	}
	return detections, nil
}

// Healthy reports whether GET /health answers 200
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func multipartBody(videoPath string, opts Options) (io.Reader, string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return nil, "", fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(videoPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}

	if opts.Confidence > 0 {
		if err := w.WriteField("confidence", strconv.FormatFloat(opts.Confidence, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	classes := opts.Classes
	if len(classes) == 0 {
		classes = VRUClasses()
	}
	if err := w.WriteField("classes", strings.Join(classes, ",")); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
