// Package store provides storage abstractions for the VRU validation server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// Handlers are tested against testify mocks of these interfaces; the GORM
// implementations live in the gorm subpackage.
//
// # Available Stores
//
//   - ProjectsStore: project CRUD
//   - VideosStore: video rows, processing status and project links
//   - GroundTruthStore: ground truth objects
//   - AnnotationsStore: annotations and annotation sessions
//   - TestSessionsStore: test sessions
//   - DetectionEventsStore: detection events
//   - ResultsStore: validation results and comparisons
//   - DashboardStore: aggregate statistics
//   - AuditLogsStore: persisted audit events
//   - HealthStore: database connectivity
//
// # Usage
//
//	projects := gorm.NewProjectsStore(db)
//	project, err := projects.FetchProject(id)
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
