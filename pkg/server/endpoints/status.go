package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/vrulab/vru-validation/pkg/detector"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// Version is reported by GET /
var Version = "dev"

const detectorHealthTimeout = 2 * time.Second

// StatusResponse is returned by GET /
type StatusResponse struct {
	Service  string `json:"service"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Database string `json:"database"`
	Auth     bool   `json:"authEnabled"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Detector string `json:"detector"`
	Error    string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status, health and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Service status (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore, s.Config.AuthEnabled())).Methods("GET")

	// GET /health - Database and detector connectivity (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore, s.Detector)).Methods("GET")

	// GET /metrics - Prometheus metrics
	s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
}

// RegisterEventsEndpoint registers the push notification WebSocket
func RegisterEventsEndpoint(s *server.Server) {
	s.Router.Handle("/ws", events.NewWebSocketHandler(s.Hub, s.Metrics)).Methods("GET")
}

func handleStatus(healthStore store.HealthStore, authEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{
			Service:  "vru-validation",
			Version:  Version,
			Status:   "running",
			Database: healthStore.Dialect(),
			Auth:     authEnabled,
		})
	}
}

func handleHealth(healthStore store.HealthStore, det detector.Detector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "healthy", Database: "connected", Detector: "unavailable"}

		if det != nil {
			ctx, cancel := context.WithTimeout(r.Context(), detectorHealthTimeout)
			if det.Healthy(ctx) {
				resp.Detector = "available"
			}
			cancel()
		}

		if err := healthStore.CheckConnectivity(); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			resp.Error = "database connectivity check failed"
			respondWithJSON(w, http.StatusServiceUnavailable, resp)
			return
		}

		respondWithJSON(w, http.StatusOK, resp)
	}
}
