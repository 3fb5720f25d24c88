package endpoints

import (
	"github.com/vrulab/vru-validation/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterEventsEndpoint(srv)
	RegisterProjectsEndpoints(srv)
	RegisterVideosEndpoints(srv)
	RegisterGroundTruthEndpoints(srv)
	RegisterAnnotationsEndpoints(srv)
	RegisterTestSessionsEndpoints(srv)
	RegisterDetectionEventsEndpoints(srv)
	RegisterDashboardEndpoints(srv)
	RegisterAuditLogsEndpoints(srv)
}
