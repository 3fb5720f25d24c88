package endpoints

import (
	"net/http"

	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// RegisterDashboardEndpoints registers the dashboard endpoints
func RegisterDashboardEndpoints(s *server.Server) {
	// GET /api/dashboard/stats - Aggregate counts and average scores
	s.API.HandleFunc("/dashboard/stats", handleDashboardStats(s.Stats)).Methods("GET")
}

func handleDashboardStats(stats func() (*store.DashboardStats, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := stats()
		if err != nil {
			respondWithStoreError(w, err, "dashboard stats")
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}
