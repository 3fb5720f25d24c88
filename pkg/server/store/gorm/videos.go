package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.VideosStore = (*VideosStore)(nil)

// VideosStore implements store.VideosStore using GORM
type VideosStore struct {
	db *gorm.DB
}

// NewVideosStore creates a new VideosStore
func NewVideosStore(db *gorm.DB) *VideosStore {
	return &VideosStore{db: db}
}

func (s *VideosStore) CreateVideo(v *model.Video) error {
	return translate(s.db.Create(v).Error)
}

func (s *VideosStore) FetchVideo(id string) (*model.Video, error) {
	var video model.Video
	if err := s.db.Where("id = ?", id).First(&video).Error; err != nil {
		return nil, translate(err)
	}
	return &video, nil
}

// ListProjectVideos returns owned videos and videos linked through video_project_links
func (s *VideosStore) ListProjectVideos(projectID string) ([]model.Video, error) {
	linked := s.db.Model(&model.VideoProjectLink{}).Select("video_id").Where("project_id = ?", projectID)

	videos := []model.Video{}
	err := s.db.Where("project_id = ? OR id IN (?)", projectID, linked).
		Order("created_at desc").
		Find(&videos).Error
	return videos, err
}

func (s *VideosStore) DeleteVideo(id string) error {
	return affected(s.db.Where("id = ?", id).Delete(&model.Video{}))
}

func (s *VideosStore) UpdateVideoProcessing(id string, status model.VideoStatus, progress int, errMsg string) error {
	return affected(s.db.Model(&model.Video{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":              status,
		"processing_progress": progress,
		"processing_error":    errMsg,
	}))
}

func (s *VideosStore) MarkGroundTruthGenerated(id string) error {
	return affected(s.db.Model(&model.Video{}).Where("id = ?", id).Update("ground_truth_generated", true))
}

func (s *VideosStore) LinkVideo(link *model.VideoProjectLink) error {
	return translate(s.db.Create(link).Error)
}

func (s *VideosStore) UnlinkVideo(videoID, projectID string) error {
	return affected(s.db.Where("video_id = ? AND project_id = ?", videoID, projectID).Delete(&model.VideoProjectLink{}))
}
