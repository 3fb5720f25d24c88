package audit

import (
	"fmt"
	"strconv"
)

// Operations recorded by ResourceEvent
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationLink   = "link"
	OperationUnlink = "unlink"
	OperationUpload = "upload"
	OperationStart  = "start"
	OperationDetect = "detect"
)

var pastTense = map[string]string{
	OperationCreate: "created",
	OperationUpdate: "updated",
	OperationDelete: "deleted",
	OperationLink:   "linked",
	OperationUnlink: "unlinked",
	OperationUpload: "uploaded",
	OperationStart:  "started",
	OperationDetect: "queued detection for",
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// ResourceEvent records a change to a project, video, annotation, ground
// truth object or test session
type ResourceEvent struct {
	UserID       string
	ClientIP     string
	ResourceType string // "project", "video", "annotation", ...
	ResourceID   string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e ResourceEvent) MessageID() string {
	return e.ResourceType
}

func (e ResourceEvent) Message() string {
	if e.Success {
		verb, ok := pastTense[e.Operation]
		if !ok {
			verb = e.Operation + "d"
		}
		return fmt.Sprintf("%s %s %s %s", e.UserID, verb, e.ResourceType, e.ResourceID)
	}
	return withError(fmt.Sprintf("%s tried to %s %s %s", e.UserID, e.Operation, e.ResourceType, e.ResourceID), e.ErrorMessage)
}

func (e ResourceEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ResourceEvent) Facility() int {
	return FacilityLocal0
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"type": e.ResourceType,
			"id":   e.ResourceID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// ValidationEvent records a validation run of a test session
type ValidationEvent struct {
	UserID         string
	ClientIP       string
	TestSessionID  string
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	F1Score        float64
	Success        bool
	ErrorMessage   string
}

func (e ValidationEvent) MessageID() string {
	return "validation"
}

func (e ValidationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s validated test session %s (TP=%d FP=%d FN=%d F1=%.3f)",
			e.UserID, e.TestSessionID, e.TruePositives, e.FalsePositives, e.FalseNegatives, e.F1Score)
	}
	return withError(fmt.Sprintf("%s failed to validate test session %s", e.UserID, e.TestSessionID), e.ErrorMessage)
}

func (e ValidationEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityError
}

func (e ValidationEvent) Facility() int {
	return FacilityLocal0
}

func (e ValidationEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"type": "test_session",
			"id":   e.TestSessionID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "validate",
			"result":    result(e.Success),
		},
	}
	if e.Success {
		sd[SDIDMetrics] = map[string]string{
			"tp": strconv.Itoa(e.TruePositives),
			"fp": strconv.Itoa(e.FalsePositives),
			"fn": strconv.Itoa(e.FalseNegatives),
			"f1": strconv.FormatFloat(e.F1Score, 'f', 4, 64),
		}
	}
	return sd
}

// GroundTruthImportEvent records a bulk ground truth load for a video
type GroundTruthImportEvent struct {
	UserID       string
	ClientIP     string
	VideoID      string
	Source       string // file path or "api"
	Objects      int
	Success      bool
	ErrorMessage string
}

func (e GroundTruthImportEvent) MessageID() string {
	return "ground_truth"
}

func (e GroundTruthImportEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s loaded %d ground truth objects for video %s from %s", e.UserID, e.Objects, e.VideoID, e.Source)
	}
	return withError(fmt.Sprintf("%s failed to load ground truth for video %s from %s", e.UserID, e.VideoID, e.Source), e.ErrorMessage)
}

func (e GroundTruthImportEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e GroundTruthImportEvent) Facility() int {
	return FacilityLocal0
}

func (e GroundTruthImportEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"type":   "video",
			"id":     e.VideoID,
			"source": e.Source,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "load",
			"result":    result(e.Success),
			"objects":   strconv.Itoa(e.Objects),
		},
	}
}

// AuthenticateEvent records a rejected or accepted bearer token
type AuthenticateEvent struct {
	UserID       string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.UserID)
	}
	user := e.UserID
	if user == "" {
		user = "anonymous"
	}
	return withError(fmt.Sprintf("%s failed to authenticate", user), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
}
