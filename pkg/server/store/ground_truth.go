package store

import "github.com/vrulab/vru-validation/pkg/model"

// GroundTruthStore abstracts ground truth storage operations
type GroundTruthStore interface {
	// CreateGroundTruth inserts all objects in a single transaction
	CreateGroundTruth(objects []model.GroundTruthObject) error

	// ListGroundTruth returns a video's objects ordered by timestamp,
	// optionally restricted to one class
	ListGroundTruth(videoID string, classLabel *model.VRUType) ([]model.GroundTruthObject, error)

	DeleteGroundTruth(id string) error

	// ReplaceVideoGroundTruth swaps all objects of a video in one transaction
	ReplaceVideoGroundTruth(videoID string, objects []model.GroundTruthObject) error

	// ReplaceVideoCandidates swaps the unvalidated objects of a video in one
	// transaction. Validated objects are kept.
	ReplaceVideoCandidates(videoID string, objects []model.GroundTruthObject) error
}
