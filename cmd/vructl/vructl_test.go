package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/db"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/report"
	"github.com/vrulab/vru-validation/pkg/server/store"
	gormstore "github.com/vrulab/vru-validation/pkg/server/store/gorm"
)

func TestMigrationsURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr string
	}{
		{name: "no query", url: "postgres://vru@localhost/vru", want: "postgres://vru@localhost/vru?x-migrations-table=vru_schema_migrations"},
		{name: "with query", url: "postgres://vru@localhost/vru?sslmode=disable", want: "postgres://vru@localhost/vru?sslmode=disable&x-migrations-table=vru_schema_migrations"},
		{name: "unset", url: "", wantErr: "DATABASE_URL"},
		{name: "sqlite", url: "sqlite:/tmp/vru.db", wantErr: "PostgreSQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.url)
			got, err := migrationsURL()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShowConfiguration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vru.yml"), []byte("processing_workers: 4\n"), 0o600))
	t.Setenv("VRU_CONFIG_PATH", dir)
	t.Setenv("VRU_DEFAULT_TOLERANCE_MS", "250")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, showConfiguration(&buf, "json"))

		var out struct {
			ConfigFile string `json:"config_file"`
			Attributes []struct {
				Name   string `json:"name"`
				Value  string `json:"value"`
				Source string `json:"source"`
			} `json:"attributes"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, filepath.Join(dir, "vru.yml"), out.ConfigFile)

		got := map[string][2]string{}
		for _, a := range out.Attributes {
			got[a.Name] = [2]string{a.Value, a.Source}
		}
		assert.Equal(t, [2]string{"4", "file"}, got["processing_workers"])
		assert.Equal(t, [2]string{"250", "environment"}, got["default_tolerance_ms"])
		assert.Equal(t, [2]string{"1000", "default"}, got["api_list_limit_max"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, showConfiguration(&buf, "text"))
		assert.Contains(t, buf.String(), "processing_workers")
		assert.Contains(t, buf.String(), "environment")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, showConfiguration(&bytes.Buffer{}, "xml"))
	})
}

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

func seedSession(t *testing.T, database *gorm.DB) *model.TestSession {
	t.Helper()
	project := &model.Project{
		Name:        "Night crossing",
		CameraModel: "AX-200",
		CameraView:  model.CameraViewFrontFacingVRU,
		SignalType:  model.SignalTypeGPIO,
	}
	require.NoError(t, gormstore.NewProjectsStore(database).CreateProject(project))

	video := &model.Video{ProjectID: project.ID, Filename: "a.mp4", FilePath: "/tmp/a.mp4"}
	require.NoError(t, gormstore.NewVideosStore(database).CreateVideo(video))

	session := &model.TestSession{Name: "run 7", ProjectID: project.ID, VideoID: video.ID, ToleranceMs: 100}
	require.NoError(t, gormstore.NewTestSessionsStore(database).CreateTestSession(session))
	return session
}

func TestRenderReport(t *testing.T) {
	database := setupSQLite(t)
	session := seedSession(t, database)

	t.Run("before validation", func(t *testing.T) {
		body, err := renderReport(database, session.ID, report.FormatMarkdown)
		require.NoError(t, err)
		assert.Contains(t, string(body), "run 7")
	})

	t.Run("with result", func(t *testing.T) {
		run := &store.ValidationRun{
			Result: &model.TestResult{
				ToleranceMs:   100,
				TruePositives: 3,
				Precision:     1,
				Recall:        0.75,
				F1Score:       0.857,
			},
		}
		require.NoError(t, gormstore.NewResultsStore(database).SaveValidationRun(session.ID, run))

		body, err := renderReport(database, session.ID, report.FormatHTML)
		require.NoError(t, err)
		assert.Contains(t, string(body), "<title>Validation report: run 7</title>")
		assert.Contains(t, string(body), "75.0%")
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := renderReport(database, "00000000-0000-0000-0000-000000000000", report.FormatMarkdown)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
