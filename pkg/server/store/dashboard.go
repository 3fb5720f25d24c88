package store

// DashboardStats are the aggregate counters shown on the dashboard
type DashboardStats struct {
	ProjectCount        int64   `json:"projectCount"`
	VideoCount          int64   `json:"videoCount"`
	TestSessionCount    int64   `json:"testSessionCount"`
	DetectionEventCount int64   `json:"detectionEventCount"`
	AnnotationCount     int64   `json:"annotationCount"`
	ResultCount         int64   `json:"resultCount"`
	AveragePrecision    float64 `json:"averagePrecision"`
	AverageRecall       float64 `json:"averageRecall"`
	AverageF1Score      float64 `json:"averageF1Score"`
}

// DashboardStore provides aggregate statistics
type DashboardStore interface {
	DashboardStats() (*DashboardStats, error)
}
