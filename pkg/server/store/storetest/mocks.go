// Package storetest provides testify mocks of the store interfaces.
package storetest

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// MockProjectsStore implements store.ProjectsStore for testing using testify/mock
type MockProjectsStore struct {
	mock.Mock
}

func (m *MockProjectsStore) CreateProject(p *model.Project) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProjectsStore) ListProjects(opts store.ListOptions) ([]model.Project, int64, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectsStore) FetchProject(id string) (*model.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectsStore) UpdateProject(p *model.Project) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockProjectsStore) DeleteProject(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockVideosStore implements store.VideosStore for testing using testify/mock
type MockVideosStore struct {
	mock.Mock
}

func (m *MockVideosStore) CreateVideo(v *model.Video) error {
	args := m.Called(v)
	return args.Error(0)
}

func (m *MockVideosStore) FetchVideo(id string) (*model.Video, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockVideosStore) ListProjectVideos(projectID string) ([]model.Video, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockVideosStore) DeleteVideo(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVideosStore) UpdateVideoProcessing(id string, status model.VideoStatus, progress int, errMsg string) error {
	args := m.Called(id, status, progress, errMsg)
	return args.Error(0)
}

func (m *MockVideosStore) MarkGroundTruthGenerated(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockVideosStore) LinkVideo(link *model.VideoProjectLink) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockVideosStore) UnlinkVideo(videoID, projectID string) error {
	args := m.Called(videoID, projectID)
	return args.Error(0)
}

// MockGroundTruthStore implements store.GroundTruthStore for testing using testify/mock
type MockGroundTruthStore struct {
	mock.Mock
}

func (m *MockGroundTruthStore) CreateGroundTruth(objects []model.GroundTruthObject) error {
	args := m.Called(objects)
	return args.Error(0)
}

func (m *MockGroundTruthStore) ListGroundTruth(videoID string, classLabel *model.VRUType) ([]model.GroundTruthObject, error) {
	args := m.Called(videoID, classLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GroundTruthObject), args.Error(1)
}

func (m *MockGroundTruthStore) DeleteGroundTruth(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGroundTruthStore) ReplaceVideoGroundTruth(videoID string, objects []model.GroundTruthObject) error {
	args := m.Called(videoID, objects)
	return args.Error(0)
}

func (m *MockGroundTruthStore) ReplaceVideoCandidates(videoID string, objects []model.GroundTruthObject) error {
	args := m.Called(videoID, objects)
	return args.Error(0)
}

// MockAnnotationsStore implements store.AnnotationsStore for testing using testify/mock
type MockAnnotationsStore struct {
	mock.Mock
}

func (m *MockAnnotationsStore) CreateAnnotation(a *model.Annotation) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockAnnotationsStore) ListAnnotations(videoID string, filter store.AnnotationFilter) ([]model.Annotation, error) {
	args := m.Called(videoID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Annotation), args.Error(1)
}

func (m *MockAnnotationsStore) FetchAnnotation(id string) (*model.Annotation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Annotation), args.Error(1)
}

func (m *MockAnnotationsStore) UpdateAnnotation(a *model.Annotation) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockAnnotationsStore) DeleteAnnotation(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAnnotationsStore) CreateAnnotationSession(s *model.AnnotationSession) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockAnnotationsStore) FetchAnnotationSession(id string) (*model.AnnotationSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnnotationSession), args.Error(1)
}

func (m *MockAnnotationsStore) UpdateAnnotationSession(s *model.AnnotationSession) error {
	args := m.Called(s)
	return args.Error(0)
}

// MockTestSessionsStore implements store.TestSessionsStore for testing using testify/mock
type MockTestSessionsStore struct {
	mock.Mock
}

func (m *MockTestSessionsStore) CreateTestSession(s *model.TestSession) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockTestSessionsStore) ListTestSessions(projectID string, opts store.ListOptions) ([]model.TestSession, error) {
	args := m.Called(projectID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TestSession), args.Error(1)
}

func (m *MockTestSessionsStore) FetchTestSession(id string) (*model.TestSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestSession), args.Error(1)
}

func (m *MockTestSessionsStore) StartTestSession(id string, startedAt time.Time) error {
	args := m.Called(id, startedAt)
	return args.Error(0)
}

func (m *MockTestSessionsStore) DeleteTestSession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockDetectionEventsStore implements store.DetectionEventsStore for testing using testify/mock
type MockDetectionEventsStore struct {
	mock.Mock
}

func (m *MockDetectionEventsStore) CreateDetectionEvent(e *model.DetectionEvent) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockDetectionEventsStore) CreateDetectionEvents(events []model.DetectionEvent) error {
	args := m.Called(events)
	return args.Error(0)
}

func (m *MockDetectionEventsStore) ListDetectionEvents(sessionID string) ([]model.DetectionEvent, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DetectionEvent), args.Error(1)
}

// MockResultsStore implements store.ResultsStore for testing using testify/mock
type MockResultsStore struct {
	mock.Mock
}

func (m *MockResultsStore) SaveValidationRun(sessionID string, run *store.ValidationRun) error {
	args := m.Called(sessionID, run)
	return args.Error(0)
}

func (m *MockResultsStore) LatestResult(sessionID string) (*model.TestResult, []model.DetectionComparison, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.TestResult), args.Get(1).([]model.DetectionComparison), args.Error(2)
}

// MockDashboardStore implements store.DashboardStore for testing using testify/mock
type MockDashboardStore struct {
	mock.Mock
}

func (m *MockDashboardStore) DashboardStats() (*store.DashboardStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.DashboardStats), args.Error(1)
}

// MockAuditLogsStore implements store.AuditLogsStore for testing using testify/mock
type MockAuditLogsStore struct {
	mock.Mock
}

func (m *MockAuditLogsStore) ListAuditLogs(resourceType string, opts store.ListOptions) ([]model.AuditLog, error) {
	args := m.Called(resourceType, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockHealthStore) Dialect() string {
	args := m.Called()
	return args.String(0)
}

var (
	_ store.ProjectsStore        = (*MockProjectsStore)(nil)
	_ store.VideosStore          = (*MockVideosStore)(nil)
	_ store.GroundTruthStore     = (*MockGroundTruthStore)(nil)
	_ store.AnnotationsStore     = (*MockAnnotationsStore)(nil)
	_ store.TestSessionsStore    = (*MockTestSessionsStore)(nil)
	_ store.DetectionEventsStore = (*MockDetectionEventsStore)(nil)
	_ store.ResultsStore         = (*MockResultsStore)(nil)
	_ store.DashboardStore       = (*MockDashboardStore)(nil)
	_ store.AuditLogsStore       = (*MockAuditLogsStore)(nil)
	_ store.HealthStore          = (*MockHealthStore)(nil)
)
