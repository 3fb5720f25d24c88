// Package server provides the HTTP server of the VRU validation platform.
//
// The server uses gorilla/mux for routing. Every request passes through
// access logging, optional CORS, panic recovery and Prometheus
// instrumentation; routes under /api additionally require a bearer token
// when a JWT secret is configured.
//
// # Server Setup
//
//	srv, err := server.NewServer(cfg, server.NewGormStores(db), "0.0.0.0", "8000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	go srv.Start()
//
// # Components
//
//   - Stores: storage interfaces, backed by GORM in production
//   - Validation: scores test sessions against ground truth
//   - Processing: detection job workers
//   - Hub: push notifications to WebSocket and MQTT clients
//   - StatsCache: short-lived cache of dashboard statistics
//
// # Endpoints
//
// Handlers live in the endpoints subpackage:
//
//   - /api/projects, /api/videos, /api/annotations, /api/test-sessions
//   - /api/dashboard/stats, /api/audit-logs
//   - /health, /, /metrics, /ws
package server
