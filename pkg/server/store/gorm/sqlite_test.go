package gorm

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/db"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.Connect(db.Config{
		URL:         "sqlite:" + filepath.Join(t.TempDir(), "vru.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func seedSQLiteSession(t *testing.T, database *gorm.DB) *model.TestSession {
	t.Helper()
	project := &model.Project{
		Name:        "Crossing",
		CameraModel: "AX-200",
		CameraView:  model.CameraViewFrontFacingVRU,
		SignalType:  model.SignalTypeGPIO,
	}
	require.NoError(t, NewProjectsStore(database).CreateProject(project))

	video := &model.Video{ProjectID: project.ID, Filename: "a.mp4", FilePath: "/tmp/a.mp4"}
	require.NoError(t, NewVideosStore(database).CreateVideo(video))

	session := &model.TestSession{Name: "run 1", ProjectID: project.ID, VideoID: video.ID, ToleranceMs: 100}
	require.NoError(t, NewTestSessionsStore(database).CreateTestSession(session))
	return session
}

func TestResultsStore_SaveValidationRun_AnnotationReference(t *testing.T) {
	database := setupSQLite(t)
	session := seedSQLiteSession(t, database)

	annotation := &model.Annotation{
		VideoID:     session.VideoID,
		Timestamp:   1.0,
		VRUType:     model.VRUTypePedestrian,
		BoundingBox: model.BoundingBox{Width: 10, Height: 20},
		Validated:   true,
	}
	require.NoError(t, NewAnnotationsStore(database).CreateAnnotation(annotation))

	event := &model.DetectionEvent{TestSessionID: session.ID, Timestamp: 1.05, Confidence: 0.9, ClassLabel: model.VRUTypePedestrian}
	require.NoError(t, NewDetectionEventsStore(database).CreateDetectionEvent(event))

	s := NewResultsStore(database)

	t.Run("annotation id in the ground truth column is rejected", func(t *testing.T) {
		run := &store.ValidationRun{
			Result: &model.TestResult{ToleranceMs: 100, TruePositives: 1},
			Comparisons: []model.DetectionComparison{
				{GroundTruthID: &annotation.ID, DetectionEventID: &event.ID, MatchType: model.MatchTypeTP},
			},
		}
		assert.Error(t, s.SaveValidationRun(session.ID, run))
	})

	t.Run("annotation column", func(t *testing.T) {
		diff := 0.05
		run := &store.ValidationRun{
			Result: &model.TestResult{ToleranceMs: 100, TruePositives: 1, Precision: 1, Recall: 1, F1Score: 1},
			Comparisons: []model.DetectionComparison{
				{AnnotationID: &annotation.ID, DetectionEventID: &event.ID, MatchType: model.MatchTypeTP, TimeDifference: &diff},
			},
			DetectionResults: map[string]model.MatchType{event.ID: model.MatchTypeTP},
		}
		require.NoError(t, s.SaveValidationRun(session.ID, run))

		result, comparisons, err := s.LatestResult(session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.TruePositives)
		require.Len(t, comparisons, 1)
		require.NotNil(t, comparisons[0].AnnotationID)
		assert.Equal(t, annotation.ID, *comparisons[0].AnnotationID)
		assert.Nil(t, comparisons[0].GroundTruthID)
	})

	t.Run("deleting the annotation keeps the comparison", func(t *testing.T) {
		require.NoError(t, NewAnnotationsStore(database).DeleteAnnotation(annotation.ID))

		_, comparisons, err := s.LatestResult(session.ID)
		require.NoError(t, err)
		require.Len(t, comparisons, 1)
		assert.Nil(t, comparisons[0].AnnotationID)
	})
}

func TestGroundTruthStore_ReplaceVideoCandidates_SQLite(t *testing.T) {
	database := setupSQLite(t)
	session := seedSQLiteSession(t, database)
	s := NewGroundTruthStore(database)

	require.NoError(t, s.CreateGroundTruth([]model.GroundTruthObject{
		{VideoID: session.VideoID, Timestamp: 0.5, ClassLabel: model.VRUTypePedestrian, Validated: true},
	}))

	candidates := func() []model.GroundTruthObject {
		return []model.GroundTruthObject{
			{Timestamp: 0.1, ClassLabel: model.VRUTypePedestrian},
			{Timestamp: 0.3, ClassLabel: model.VRUTypeCyclist},
		}
	}
	require.NoError(t, s.ReplaceVideoCandidates(session.VideoID, candidates()))
	require.NoError(t, s.ReplaceVideoCandidates(session.VideoID, candidates()))

	objects, err := s.ListGroundTruth(session.VideoID, nil)
	require.NoError(t, err)
	require.Len(t, objects, 3)

	var validated int
	for _, o := range objects {
		if o.Validated {
			validated++
		}
	}
	assert.Equal(t, 1, validated)
}

func TestTestSessionsStore_StartTestSession_SQLite(t *testing.T) {
	database := setupSQLite(t)
	session := seedSQLiteSession(t, database)
	s := NewTestSessionsStore(database)

	now := time.Now().UTC()
	require.NoError(t, s.StartTestSession(session.ID, now))
	assert.ErrorIs(t, s.StartTestSession(session.ID, now), store.ErrConflict)
	assert.ErrorIs(t, s.StartTestSession(uuid.NewString(), now), store.ErrNotFound)

	got, err := s.FetchTestSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusRunning, got.Status)
	assert.NotNil(t, got.StartedAt)
}
