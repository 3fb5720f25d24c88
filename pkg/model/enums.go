package model

//go:generate go run github.com/dmarkham/enumer -type VRUType -trimprefix VRUType -transform snake -json -yaml -sql -output vru_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type CameraView -trimprefix CameraView -transform snake -json -yaml -sql -output camera_view.gen.go
//go:generate go run github.com/dmarkham/enumer -type SignalType -trimprefix SignalType -transform snake -json -yaml -sql -output signal_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type MatchType -trimprefix MatchType -json -yaml -sql -output match_type.gen.go

// VRUType is the class of vulnerable road user being annotated or detected.
type VRUType int

const (
	VRUTypePedestrian VRUType = iota
	VRUTypeCyclist
	VRUTypeMotorcyclist
	VRUTypeWheelchairUser
	VRUTypeScooterRider
)

// CameraView is the mounting position of the camera under test.
type CameraView int

const (
	CameraViewFrontFacingVRU CameraView = iota
	CameraViewRearFacingVRU
	CameraViewInCabDriverBehavior
)

// SignalType is how the device under test reports a detection.
type SignalType int

const (
	SignalTypeGPIO SignalType = iota
	SignalTypeNetworkPacket
	SignalTypeSerial
	SignalTypeCANBus
)

// MatchType classifies a ground truth / detection pairing.
type MatchType int

const (
	MatchTypeTP MatchType = iota
	MatchTypeFP
	MatchTypeFN
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

type VideoStatus string

const (
	VideoStatusUploaded   VideoStatus = "uploaded"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "created"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

type AnnotationSessionStatus string

const (
	AnnotationSessionActive    AnnotationSessionStatus = "active"
	AnnotationSessionPaused    AnnotationSessionStatus = "paused"
	AnnotationSessionCompleted AnnotationSessionStatus = "completed"
)

// IsValid reports whether s is a known project status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// IsValid reports whether s is a known annotation session status.
func (s AnnotationSessionStatus) IsValid() bool {
	switch s {
	case AnnotationSessionActive, AnnotationSessionPaused, AnnotationSessionCompleted:
		return true
	}
	return false
}
