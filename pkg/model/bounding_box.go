package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BoundingBox is a pixel-space rectangle stored as a JSON column.
type BoundingBox struct {
	X          float64  `json:"x" yaml:"x"`
	Y          float64  `json:"y" yaml:"y"`
	Width      float64  `json:"width" yaml:"width"`
	Height     float64  `json:"height" yaml:"height"`
	Label      string   `json:"label,omitempty" yaml:"label,omitempty"`
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Area returns the box area, zero for degenerate boxes
func (b BoundingBox) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Validate checks the box has a positive size and a non-negative origin.
func (b BoundingBox) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return &ValidationError{Field: "boundingBox", Message: "width and height must be positive"}
	}
	if b.X < 0 || b.Y < 0 {
		return &ValidationError{Field: "boundingBox", Message: "x and y must not be negative"}
	}
	if b.Confidence != nil {
		if err := ValidateConfidence("boundingBox.confidence", *b.Confidence); err != nil {
			return err
		}
	}
	return nil
}

func (b BoundingBox) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *BoundingBox) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("invalid value of BoundingBox: %[1]T(%[1]v)", value)
	}
	return json.Unmarshal(data, b)
}
