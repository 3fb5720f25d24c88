package processing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/db"
	"github.com/vrulab/vru-validation/pkg/model"
	gormstore "github.com/vrulab/vru-validation/pkg/server/store/gorm"
	"github.com/vrulab/vru-validation/pkg/validation"
)

type sqliteStores struct {
	projects    *gormstore.ProjectsStore
	videos      *gormstore.VideosStore
	groundTruth *gormstore.GroundTruthStore
	annotations *gormstore.AnnotationsStore
	sessions    *gormstore.TestSessionsStore
	detections  *gormstore.DetectionEventsStore
	results     *gormstore.ResultsStore
}

func openSQLiteStores(t *testing.T) *sqliteStores {
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
	return newSQLiteStores(database)
}

func newSQLiteStores(database *gorm.DB) *sqliteStores {
	return &sqliteStores{
		projects:    gormstore.NewProjectsStore(database),
		videos:      gormstore.NewVideosStore(database),
		groundTruth: gormstore.NewGroundTruthStore(database),
		annotations: gormstore.NewAnnotationsStore(database),
		sessions:    gormstore.NewTestSessionsStore(database),
		detections:  gormstore.NewDetectionEventsStore(database),
		results:     gormstore.NewResultsStore(database),
	}
}

func (s *sqliteStores) service() *validation.Service {
	return validation.NewService(s.sessions, s.groundTruth, s.annotations, s.detections, s.results)
}

func (s *sqliteStores) newSession(t *testing.T, videoID, projectID string) *model.TestSession {
	t.Helper()
	session := &model.TestSession{Name: "run", ProjectID: projectID, VideoID: videoID, ToleranceMs: 100}
	require.NoError(t, s.sessions.CreateTestSession(session))
	return session
}

func runJob(t *testing.T, r *Runner, videoID, sessionID string) {
	t.Helper()
	submitted, err := r.Submit(videoID, sessionID)
	require.NoError(t, err)
	job := waitDone(t, r, submitted.ID)
	require.Equal(t, StatusCompleted, job.Status, job.Error)
}

func TestPipeline_DetectionRunsAndValidation(t *testing.T) {
	s := openSQLiteStores(t)

	project := &model.Project{
		Name:        "Crossing",
		CameraModel: "AX-200",
		CameraView:  model.CameraViewFrontFacingVRU,
		SignalType:  model.SignalTypeGPIO,
	}
	require.NoError(t, s.projects.CreateProject(project))
	video := &model.Video{ProjectID: project.ID, Filename: "a.mp4", FilePath: "/tmp/a.mp4"}
	require.NoError(t, s.videos.CreateVideo(video))

	r := NewRunner(&fakeDetector{detections: sampleDetections}, s.videos, s.groundTruth, s.detections, &recordingPublisher{}, nil)
	r.Start(1)
	defer r.Stop()

	t.Run("repeated runs keep one set of candidates", func(t *testing.T) {
		session := s.newSession(t, video.ID, project.ID)
		runJob(t, r, video.ID, session.ID)
		runJob(t, r, video.ID, session.ID)

		objects, err := s.groundTruth.ListGroundTruth(video.ID, nil)
		require.NoError(t, err)
		require.Len(t, objects, len(sampleDetections))
		for _, o := range objects {
			assert.False(t, o.Validated)
		}

		events, err := s.detections.ListDetectionEvents(session.ID)
		require.NoError(t, err)
		assert.Len(t, events, 2*len(sampleDetections))
	})

	t.Run("candidates are not reference truth", func(t *testing.T) {
		session := s.newSession(t, video.ID, project.ID)
		runJob(t, r, video.ID, session.ID)

		outcome, err := s.service().ValidateTestSession(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, outcome.Result.TruePositives)
		assert.Equal(t, len(sampleDetections), outcome.Result.FalsePositives)
		assert.Equal(t, 0.0, outcome.Result.F1Score)
	})

	t.Run("validated annotations are the fallback reference", func(t *testing.T) {
		require.NoError(t, s.annotations.CreateAnnotation(&model.Annotation{
			VideoID:     video.ID,
			Timestamp:   sampleDetections[0].Timestamp,
			VRUType:     sampleDetections[0].Class,
			BoundingBox: sampleDetections[0].Box,
			Validated:   true,
		}))

		session := s.newSession(t, video.ID, project.ID)
		runJob(t, r, video.ID, session.ID)

		outcome, err := s.service().ValidateTestSession(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Result.TruePositives)
		assert.Equal(t, 1, outcome.Result.FalsePositives)
		assert.Equal(t, 0, outcome.Result.FalseNegatives)

		result, comparisons, err := s.results.LatestResult(session.ID)
		require.NoError(t, err)
		assert.Equal(t, outcome.Result.ID, result.ID)
		require.Len(t, comparisons, 2)
		for _, c := range comparisons {
			assert.Nil(t, c.GroundTruthID)
			if c.MatchType == model.MatchTypeTP {
				assert.NotNil(t, c.AnnotationID)
			}
		}

		got, err := s.sessions.FetchTestSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SessionStatusCompleted, got.Status)
	})

	t.Run("validated ground truth survives detection runs", func(t *testing.T) {
		box := sampleDetections[1].Box
		require.NoError(t, s.groundTruth.CreateGroundTruth([]model.GroundTruthObject{{
			VideoID:     video.ID,
			Timestamp:   sampleDetections[1].Timestamp,
			ClassLabel:  sampleDetections[1].Class,
			BoundingBox: &box,
			Validated:   true,
		}}))

		session := s.newSession(t, video.ID, project.ID)
		runJob(t, r, video.ID, session.ID)

		objects, err := s.groundTruth.ListGroundTruth(video.ID, nil)
		require.NoError(t, err)
		assert.Len(t, objects, len(sampleDetections)+1)

		outcome, err := s.service().ValidateTestSession(context.Background(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Result.TruePositives)
		assert.Equal(t, 1, outcome.Result.FalsePositives)
		assert.Equal(t, 0, outcome.Result.FalseNegatives)

		_, comparisons, err := s.results.LatestResult(session.ID)
		require.NoError(t, err)
		for _, c := range comparisons {
			assert.Nil(t, c.AnnotationID)
			if c.MatchType == model.MatchTypeTP {
				assert.NotNil(t, c.GroundTruthID)
			}
		}
	})
}
