package groundtruth

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vrulab/vru-validation/pkg/model"
)

// ErrInvalidDocument is returned for documents that cannot be decoded
var ErrInvalidDocument = errors.New("invalid ground truth document")

// Document is a parsed ground truth file
type Document struct {
	Video   string   `yaml:"video"`
	Replace *bool    `yaml:"replace,omitempty"`
	Objects []Object `yaml:"objects"`
}

// Object is one ground truth entry of a document
type Object struct {
	Frame      int                `yaml:"frame"`
	Timestamp  float64            `yaml:"timestamp"`
	Class      model.VRUType      `yaml:"class"`
	Box        *model.BoundingBox `yaml:"box,omitempty"`
	Confidence *float64           `yaml:"confidence,omitempty"`
	Validated  *bool              `yaml:"validated,omitempty"`
	Difficult  bool               `yaml:"difficult,omitempty"`
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// ReplaceExisting reports whether the document replaces a video's objects
func (d *Document) ReplaceExisting() bool {
	return d.Replace == nil || *d.Replace
}

// Validate checks the video reference and every object
func (d *Document) Validate() error {
	if d.Video == "" {
		return &model.ValidationError{Field: "video", Message: "is required"}
	}
	for i, obj := range d.Objects {
		row := obj.model(d.Video)
		if err := row.Validate(); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
	}
	return nil
}

// Models converts the document into rows ready to insert
func (d *Document) Models() []model.GroundTruthObject {
	rows := make([]model.GroundTruthObject, 0, len(d.Objects))
	for _, obj := range d.Objects {
		rows = append(rows, obj.model(d.Video))
	}
	return rows
}

func (o Object) model(videoID string) model.GroundTruthObject {
	validated := true
	if o.Validated != nil {
		validated = *o.Validated
	}
	return model.GroundTruthObject{
		VideoID:     videoID,
		FrameNumber: o.Frame,
		Timestamp:   o.Timestamp,
		ClassLabel:  o.Class,
		BoundingBox: o.Box,
		Confidence:  o.Confidence,
		Validated:   validated,
		Difficult:   o.Difficult,
	}
}
