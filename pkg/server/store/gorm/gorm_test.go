package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

var projectColumns = []string{"id", "name", "description", "camera_model", "camera_view", "signal_type", "status", "created_at", "updated_at"}

func TestProjectsStore_CreateProject(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewProjectsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "projects"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	project := &model.Project{
		Name:        "Front camera",
		CameraModel: "AX-200",
		CameraView:  model.CameraViewFrontFacingVRU,
		SignalType:  model.SignalTypeGPIO,
	}
	require.NoError(t, s.CreateProject(project))

	assert.True(t, model.IsValidID(project.ID))
	assert.Equal(t, model.ProjectStatusActive, project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsStore_FetchProject(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewProjectsStore(db)

	now := time.Now()
	rows := sqlmock.NewRows(projectColumns).
		AddRow("p-1", "Front camera", "", "AX-200", "front_facing_vru", "can_bus", "active", now, now)
	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1`).
		WillReturnRows(rows)

	project, err := s.FetchProject("p-1")
	require.NoError(t, err)
	assert.Equal(t, "Front camera", project.Name)
	assert.Equal(t, model.CameraViewFrontFacingVRU, project.CameraView)
	assert.Equal(t, model.SignalTypeCANBus, project.SignalType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsStore_FetchProject_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewProjectsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "projects"`).WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := s.FetchProject("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsStore_ListProjects(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewProjectsStore(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "projects" ORDER BY created_at desc LIMIT`).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow("p-2", "B", "", "AX", "rear_facing_vru", "serial", "active", now, now).
			AddRow("p-1", "A", "", "AX", "front_facing_vru", "gpio", "archived", now, now))

	projects, total, err := s.ListProjects(store.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, projects, 2)
	assert.Equal(t, "p-2", projects[0].ID)
	assert.Equal(t, model.ProjectStatusArchived, projects[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsStore_DeleteProject_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewProjectsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.DeleteProject("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideosStore_UnlinkVideo(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewVideosStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "video_project_links" WHERE video_id = \$1 AND project_id = \$2`).
		WithArgs("v-1", "p-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.UnlinkVideo("v-1", "p-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideosStore_UpdateVideoProcessing(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewVideosStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "videos" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.UpdateVideoProcessing("v-1", model.VideoStatusProcessing, 40, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundTruthStore_ListGroundTruth_ByClass(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewGroundTruthStore(db)

	cyclist := model.VRUTypeCyclist
	columns := []string{"id", "video_id", "frame_number", "timestamp", "class_label", "bounding_box", "confidence", "validated", "difficult", "created_at"}
	mock.ExpectQuery(`SELECT \* FROM "ground_truth_objects" WHERE video_id = \$1 AND class_label = \$2 ORDER BY timestamp asc`).
		WithArgs("v-1", "cyclist").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("g-1", "v-1", 30, 1.0, "cyclist", `{"x":1,"y":2,"width":10,"height":20}`, nil, true, false, time.Now()))

	objects, err := s.ListGroundTruth("v-1", &cyclist)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, model.VRUTypeCyclist, objects[0].ClassLabel)
	require.NotNil(t, objects[0].BoundingBox)
	assert.Equal(t, 20.0, objects[0].BoundingBox.Height)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundTruthStore_CreateGroundTruth_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewGroundTruthStore(db)

	assert.NoError(t, s.CreateGroundTruth(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundTruthStore_ReplaceVideoCandidates(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewGroundTruthStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "ground_truth_objects" WHERE video_id = \$1 AND validated = \$2`).
		WithArgs("v-1", false).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "ground_truth_objects"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	objects := []model.GroundTruthObject{{Timestamp: 1.5, ClassLabel: model.VRUTypePedestrian}}
	require.NoError(t, s.ReplaceVideoCandidates("v-1", objects))
	assert.Equal(t, "v-1", objects[0].VideoID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestSessionsStore_StartTestSession(t *testing.T) {
	startedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("created", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewTestSessionsStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "test_sessions" SET .* WHERE \(?id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.StartTestSession("s-1", startedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already completed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewTestSessionsStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "test_sessions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "test_sessions" WHERE id = \$1`).
			WithArgs("s-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		assert.ErrorIs(t, s.StartTestSession("s-1", startedAt), store.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := setupTestDB(t)
		s := NewTestSessionsStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "test_sessions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "test_sessions"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		assert.ErrorIs(t, s.StartTestSession("gone", startedAt), store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResultsStore_SaveValidationRun(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewResultsStore(db)

	gtID, detID, fpID := "g-1", "d-1", "d-2"
	run := &store.ValidationRun{
		Result: &model.TestResult{TruePositives: 1, FalsePositives: 1},
		Comparisons: []model.DetectionComparison{
			{GroundTruthID: &gtID, DetectionEventID: &detID, MatchType: model.MatchTypeTP},
			{DetectionEventID: &fpID, MatchType: model.MatchTypeFP},
		},
		DetectionResults: map[string]model.MatchType{
			detID: model.MatchTypeTP,
			fpID:  model.MatchTypeFP,
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "test_results"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "detection_comparisons"`).WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectExec(`UPDATE "detection_events" SET "validation_result"=\$1`).
		WithArgs("TP", "s-1", detID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "detection_events" SET "validation_result"=\$1`).
		WithArgs("FP", "s-1", fpID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "test_sessions" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveValidationRun("s-1", run))

	assert.Equal(t, "s-1", run.Result.TestSessionID)
	for _, c := range run.Comparisons {
		assert.Equal(t, run.Result.ID, c.TestResultID)
		assert.Equal(t, "s-1", c.TestSessionID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsStore_SaveValidationRun_MissingSession(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewResultsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "test_results"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE "test_sessions" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SaveValidationRun("gone", &store.ValidationRun{Result: &model.TestResult{}})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultsStore_LatestResult_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewResultsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "test_results" WHERE test_session_id = \$1 ORDER BY created_at desc`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := s.LatestResult("s-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardStore_DashboardStats(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDashboardStore(db)

	tables := []string{"projects", "videos", "test_sessions", "detection_events", "annotations", "test_results"}
	for i, table := range tables {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "` + table + `"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(i + 1))
	}
	mock.ExpectQuery(`SELECT COALESCE\(AVG\("precision"\), 0\) AS avg_precision`).
		WillReturnRows(sqlmock.NewRows([]string{"avg_precision", "avg_recall", "avg_f1_score"}).AddRow(0.9, 0.8, 0.85))

	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ProjectCount)
	assert.EqualValues(t, 6, stats.ResultCount)
	assert.InDelta(t, 0.9, stats.AveragePrecision, 1e-9)
	assert.InDelta(t, 0.85, stats.AverageF1Score, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardStore_DashboardStats_NoResults(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDashboardStore(db)

	for range 6 {
		mock.ExpectQuery(`SELECT count\(\*\) FROM`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}

	stats, err := s.DashboardStats()
	require.NoError(t, err)
	assert.Zero(t, stats.AveragePrecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), store.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), store.ErrConflict)
	assert.ErrorIs(t, translate(gorm.ErrInvalidData), gorm.ErrInvalidData)
}
