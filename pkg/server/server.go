package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/detector"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/metrics"
	"github.com/vrulab/vru-validation/pkg/processing"
	"github.com/vrulab/vru-validation/pkg/server/middleware"
	"github.com/vrulab/vru-validation/pkg/server/store"
	gormstore "github.com/vrulab/vru-validation/pkg/server/store/gorm"
	"github.com/vrulab/vru-validation/pkg/validation"
)

const statsCacheKey = "dashboard_stats"

// Stores bundles every store the endpoints use
type Stores struct {
	ProjectsStore        store.ProjectsStore
	VideosStore          store.VideosStore
	GroundTruthStore     store.GroundTruthStore
	AnnotationsStore     store.AnnotationsStore
	TestSessionsStore    store.TestSessionsStore
	DetectionEventsStore store.DetectionEventsStore
	ResultsStore         store.ResultsStore
	DashboardStore       store.DashboardStore
	AuditLogsStore       store.AuditLogsStore
	HealthStore          store.HealthStore
}

// NewGormStores creates GORM backed stores on db
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		ProjectsStore:        gormstore.NewProjectsStore(db),
		VideosStore:          gormstore.NewVideosStore(db),
		GroundTruthStore:     gormstore.NewGroundTruthStore(db),
		AnnotationsStore:     gormstore.NewAnnotationsStore(db),
		TestSessionsStore:    gormstore.NewTestSessionsStore(db),
		DetectionEventsStore: gormstore.NewDetectionEventsStore(db),
		ResultsStore:         gormstore.NewResultsStore(db),
		DashboardStore:       gormstore.NewDashboardStore(db),
		AuditLogsStore:       gormstore.NewAuditLogsStore(db),
		HealthStore:          gormstore.NewHealthStore(db),
	}
}

type Server struct {
	Stores

	Config        *config.VRUConfig
	Router        *mux.Router
	API           *mux.Router
	JWTMiddleware *middleware.JWTAuthenticator

	Validation *validation.Service
	Detector   detector.Detector
	Processing *processing.Runner
	Hub        *events.Hub
	Metrics    *metrics.Metrics
	StatsCache *cache.Cache

	mqtt    *events.MQTTSink
	handler http.Handler
	srv     *http.Server
}

// NewServer wires the services around stores. The detection workers are
// started by Start.
func NewServer(cfg *config.VRUConfig, stores Stores, host string, port string) (*Server, error) {
	m, err := metrics.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	hub := events.NewHub(m)
	det := detector.NewClient(cfg.DetectorURL, nil)

	runner := processing.NewRunner(det, stores.VideosStore, stores.GroundTruthStore, stores.DetectionEventsStore, hub, m)
	runner.Options = detector.Options{Confidence: cfg.DetectorConfidence}

	router := mux.NewRouter()
	router.Use(m.Middleware)

	jwtMiddleware := middleware.NewJWTAuthenticator(cfg.JWTSecret)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(jwtMiddleware.Middleware)

	s := &Server{
		Stores:        stores,
		Config:        cfg,
		Router:        router,
		API:           api,
		JWTMiddleware: jwtMiddleware,
		Validation: validation.NewService(
			stores.TestSessionsStore,
			stores.GroundTruthStore,
			stores.AnnotationsStore,
			stores.DetectionEventsStore,
			stores.ResultsStore,
		),
		Detector:   det,
		Processing: runner,
		Hub:        hub,
		Metrics:    m,
		StatsCache: cache.New(cfg.StatsCacheTTL(), 2*cfg.StatsCacheTTL()),
	}

	var handler http.Handler = middleware.Recovery(router)
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowCredentials(),
		)(handler)
	}
	s.handler = handler

	s.srv = &http.Server{
		Handler:           handlers.LoggingHandler(os.Stdout, handler),
		Addr:              host + ":" + port,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler returns the router wrapped in recovery and CORS, without access logs
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ConnectMQTT adds an MQTT sink to the event hub when a broker is configured
func (s *Server) ConnectMQTT() error {
	if s.Config.MQTTBroker == "" {
		return nil
	}
	hostname, _ := os.Hostname()
	sink, err := events.DialMQTT(s.Config.MQTTBroker, "vru-"+hostname, s.Config.MQTTTopicPrefix)
	if err != nil {
		return err
	}
	s.mqtt = sink
	s.Hub.AddSink(sink)
	return nil
}

// Stats returns dashboard statistics, cached for the configured TTL
func (s *Server) Stats() (*store.DashboardStats, error) {
	if s.Config.StatsCacheTTL() <= 0 {
		return s.DashboardStore.DashboardStats()
	}
	if cached, ok := s.StatsCache.Get(statsCacheKey); ok {
		return cached.(*store.DashboardStats), nil
	}
	stats, err := s.DashboardStore.DashboardStats()
	if err != nil {
		return nil, err
	}
	s.StatsCache.SetDefault(statsCacheKey, stats)
	return stats, nil
}

// InvalidateStats drops cached dashboard statistics after a write
func (s *Server) InvalidateStats() {
	s.StatsCache.Delete(statsCacheKey)
}

// Start runs the detection workers and serves HTTP until Shutdown
func (s *Server) Start() error {
	s.Processing.Start(s.Config.ProcessingWorkers)
	log.Printf("Listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP requests, cancels detection jobs and disconnects
// push clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.Processing.Stop()
	s.Hub.Close()
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	return err
}
