// Package audit provides audit logging for VRU validation operations.
//
// Every change to projects, videos, ground truth, annotations and test
// sessions, and every validation run, produces an Event. Log writes it to
// stdout in RFC5424 syslog format and, once SetStore has been called,
// persists it to the audit_logs table.
//
// # Event Types
//
//   - ResourceEvent: create/update/delete and friends on a resource
//   - ValidationEvent: a test session validation with its counts
//   - GroundTruthImportEvent: a bulk ground truth load
//   - AuthenticateEvent: bearer token checks
//
// # Usage
//
//	audit.SetStore(audit.NewStore(db))
//	audit.Log(audit.ResourceEvent{
//	    UserID:       "alice",
//	    ResourceType: "project",
//	    ResourceID:   project.ID,
//	    Operation:    audit.OperationCreate,
//	    Success:      true,
//	})
package audit
