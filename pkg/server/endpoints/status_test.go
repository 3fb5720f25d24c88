package endpoints

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

func TestHandleStatus(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("Dialect").Return("sqlite").Once()

	w := env.do(t, "GET", "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got StatusResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, "running", got.Status)
	assert.Equal(t, "sqlite", got.Database)
	assert.False(t, got.Auth)
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(nil).Once()
	env.health.On("CheckConnectivity").Return(errors.New("dial tcp: refused")).Once()

	w := env.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"connected","detector":"available"}`, w.Body.String())

	w = env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var got HealthResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, "unhealthy", got.Status)
	assert.NotContains(t, got.Error, "refused")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("FetchProject", "p1").Return(sampleProject(), nil).Once()
	env.do(t, "GET", "/api/projects/p1", nil)

	w := env.do(t, "GET", "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vru_")
}

func TestDashboardStats_Cached(t *testing.T) {
	env := newTestEnv(t)
	env.dashboard.On("DashboardStats").Return(&store.DashboardStats{ProjectCount: 2, AverageF1Score: 0.75}, nil).Once()
	env.dashboard.On("DashboardStats").Return(&store.DashboardStats{ProjectCount: 3}, nil).Once()
	env.projects.On("DeleteProject", "p1").Return(nil).Once()

	for i := 0; i < 2; i++ {
		w := env.do(t, "GET", "/api/dashboard/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got store.DashboardStats
		decodeResponse(t, w, &got)
		assert.Equal(t, int64(2), got.ProjectCount)
	}

	env.do(t, "DELETE", "/api/projects/p1", nil)

	w := env.do(t, "GET", "/api/dashboard/stats", nil)
	var got store.DashboardStats
	decodeResponse(t, w, &got)
	assert.Equal(t, int64(3), got.ProjectCount)
}

func TestListAuditLogs(t *testing.T) {
	env := newTestEnv(t)
	env.auditLogs.On("ListAuditLogs", "test_session", store.ListOptions{Limit: 1000, Offset: 10}).
		Return([]model.AuditLog{{ID: "l1", Action: "create", ResourceType: "test_session"}}, nil).Once()
	env.auditLogs.On("ListAuditLogs", "", mock.Anything).Return(nil, nil).Once()

	w := env.do(t, "GET", "/api/audit-logs?resourceType=test_session&offset=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []model.AuditLog
	decodeResponse(t, w, &got)
	assert.Len(t, got, 1)

	w = env.do(t, "GET", "/api/audit-logs", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.VRUConfig) { cfg.JWTSecret = "s3cret" })

	w := env.do(t, "GET", "/api/projects", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
