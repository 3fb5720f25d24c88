package gorm

import (
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

var _ store.DashboardStore = (*DashboardStore)(nil)

// DashboardStore implements store.DashboardStore using GORM
type DashboardStore struct {
	db *gorm.DB
}

// NewDashboardStore creates a new DashboardStore
func NewDashboardStore(db *gorm.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

type metricAverages struct {
	AvgPrecision float64
	AvgRecall    float64
	AvgF1Score   float64
}

func (s *DashboardStore) DashboardStats() (*store.DashboardStats, error) {
	stats := &store.DashboardStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&model.Project{}, &stats.ProjectCount},
		{&model.Video{}, &stats.VideoCount},
		{&model.TestSession{}, &stats.TestSessionCount},
		{&model.DetectionEvent{}, &stats.DetectionEventCount},
		{&model.Annotation{}, &stats.AnnotationCount},
		{&model.TestResult{}, &stats.ResultCount},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if stats.ResultCount == 0 {
		return stats, nil
	}

	var avg metricAverages
	err := s.db.Model(&model.TestResult{}).
		Select(`COALESCE(AVG("precision"), 0) AS avg_precision, COALESCE(AVG(recall), 0) AS avg_recall, COALESCE(AVG(f1_score), 0) AS avg_f1_score`).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	stats.AveragePrecision = avg.AvgPrecision
	stats.AverageRecall = avg.AvgRecall
	stats.AverageF1Score = avg.AvgF1Score
	return stats, nil
}
