package groundtruth

import (
	"fmt"
	"io"
	"os"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// LoadResult describes an applied document
type LoadResult struct {
	VideoID  string `json:"videoId"`
	Objects  int    `json:"objects"`
	Replaced bool   `json:"replaced"`
}

// Loader applies ground truth documents to the store
type Loader struct {
	videos      store.VideosStore
	groundTruth store.GroundTruthStore
	userID      string
	clientIP    string
	source      string
}

// NewLoader creates a new ground truth loader
func NewLoader(videos store.VideosStore, groundTruth store.GroundTruthStore) *Loader {
	return &Loader{
		videos:      videos,
		groundTruth: groundTruth,
		userID:      "vructl",
		source:      "stdin",
	}
}

// WithUserID sets the user recorded in the audit log
func (l *Loader) WithUserID(userID string) *Loader {
	l.userID = userID
	return l
}

// WithClientIP sets the client IP for audit
func (l *Loader) WithClientIP(clientIP string) *Loader {
	l.clientIP = clientIP
	return l
}

// WithSource names where the document came from, for audit
func (l *Loader) WithSource(source string) *Loader {
	l.source = source
	return l
}

// LoadFile opens path and loads it
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return l.WithSource(path).LoadFromReader(f)
}

// LoadFromReader parses, validates and stores a document
func (l *Loader) LoadFromReader(r io.Reader) (*LoadResult, error) {
	res, err := l.load(r)

	event := audit.GroundTruthImportEvent{
		UserID:   l.userID,
		ClientIP: l.clientIP,
		Source:   l.source,
		Success:  err == nil,
	}
	if res != nil {
		event.VideoID = res.VideoID
		event.Objects = res.Objects
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *Loader) load(r io.Reader) (*LoadResult, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	res := &LoadResult{VideoID: doc.Video, Objects: len(doc.Objects), Replaced: doc.ReplaceExisting()}

	if err := doc.Validate(); err != nil {
		return res, err
	}
	if _, err := l.videos.FetchVideo(doc.Video); err != nil {
		return res, fmt.Errorf("video %s: %w", doc.Video, err)
	}

	rows := doc.Models()
	if res.Replaced {
		err = l.groundTruth.ReplaceVideoGroundTruth(doc.Video, rows)
	} else {
		err = l.groundTruth.CreateGroundTruth(rows)
	}
	if err != nil {
		return res, fmt.Errorf("store ground truth: %w", err)
	}
	return res, nil
}
