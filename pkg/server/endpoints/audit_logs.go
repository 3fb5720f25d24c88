package endpoints

import (
	"net/http"

	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// RegisterAuditLogsEndpoints registers the audit log endpoints
func RegisterAuditLogsEndpoints(s *server.Server) {
	// GET /api/audit-logs - List persisted audit events (?resourceType=&limit=&offset=)
	s.API.HandleFunc("/audit-logs", handleListAuditLogs(s.AuditLogsStore, s.Config)).Methods("GET")
}

func handleListAuditLogs(auditLogsStore store.AuditLogsStore, cfg *config.VRUConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r, cfg)
		if err != nil {
			respondWithStoreError(w, err, "audit log")
			return
		}

		logs, err := auditLogsStore.ListAuditLogs(r.URL.Query().Get("resourceType"), opts)
		if err != nil {
			respondWithStoreError(w, err, "audit log")
			return
		}
		if logs == nil {
			logs = []model.AuditLog{}
		}
		respondWithJSON(w, http.StatusOK, logs)
	}
}
