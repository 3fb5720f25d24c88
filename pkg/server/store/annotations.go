package store

import "github.com/vrulab/vru-validation/pkg/model"

// AnnotationFilter narrows ListAnnotations. Nil fields are ignored.
type AnnotationFilter struct {
	VRUType   *model.VRUType
	Validated *bool
	SessionID string
}

// AnnotationsStore abstracts annotation storage operations
type AnnotationsStore interface {
	CreateAnnotation(a *model.Annotation) error

	// ListAnnotations returns a video's annotations ordered by timestamp
	ListAnnotations(videoID string, filter AnnotationFilter) ([]model.Annotation, error)

	FetchAnnotation(id string) (*model.Annotation, error)

	UpdateAnnotation(a *model.Annotation) error

	DeleteAnnotation(id string) error

	CreateAnnotationSession(s *model.AnnotationSession) error

	FetchAnnotationSession(id string) (*model.AnnotationSession, error)

	UpdateAnnotationSession(s *model.AnnotationSession) error
}
