// Package model defines the database models for the VRU validation platform.
//
// This package contains GORM models that map to the relational schema created
// by the migrations in db/migrations. Every row uses a UUID primary key that is
// generated in BeforeCreate when the caller leaves it empty.
//
// # Core Models
//
//   - Project: a camera/signal test setup
//   - Video: an uploaded recording belonging to a project
//   - VideoProjectLink: additional project assignments of a video
//   - GroundTruthObject: reference detections used for scoring
//   - Annotation / AnnotationSession: manual labelling work
//   - TestSession: a detector run against a video
//   - DetectionEvent: a single detector output inside a test session
//   - TestResult / DetectionComparison: validation output
//   - AuditLog: persisted audit events
//
// # Database Schema
//
//   - projects, videos, video_project_links
//   - ground_truth_objects, annotations, annotation_sessions
//   - test_sessions, detection_events, test_results, detection_comparisons
//   - audit_logs
package model
