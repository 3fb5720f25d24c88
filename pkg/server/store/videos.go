package store

import "github.com/vrulab/vru-validation/pkg/model"

// VideosStore abstracts video storage operations
type VideosStore interface {
	CreateVideo(v *model.Video) error

	// FetchVideo returns ErrNotFound if the video doesn't exist
	FetchVideo(id string) (*model.Video, error)

	// ListProjectVideos returns videos owned by or linked to a project
	ListProjectVideos(projectID string) ([]model.Video, error)

	DeleteVideo(id string) error

	// UpdateVideoProcessing records detection progress on a video
	UpdateVideoProcessing(id string, status model.VideoStatus, progress int, errMsg string) error

	// MarkGroundTruthGenerated flags that the pipeline produced ground truth candidates
	MarkGroundTruthGenerated(id string) error

	// LinkVideo returns ErrConflict if the video is already linked to the project
	LinkVideo(link *model.VideoProjectLink) error

	// UnlinkVideo returns ErrNotFound if there was no link
	UnlinkVideo(videoID, projectID string) error
}
