package processing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrulab/vru-validation/pkg/detector"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/metrics"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

const defaultQueueSize = 100

var (
	// ErrQueueFull is returned by Submit when no more jobs can be queued
	ErrQueueFull = errors.New("processing queue is full")
	// ErrStopped is returned by Submit after Stop
	ErrStopped = errors.New("processing runner stopped")
)

// Status is the lifecycle state of a job
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is a snapshot of one detection run
type Job struct {
	ID            string     `json:"id"`
	VideoID       string     `json:"videoId"`
	TestSessionID string     `json:"testSessionId,omitempty"`
	Status        Status     `json:"status"`
	Progress      int        `json:"progress"`
	Detections    int        `json:"detections"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
}

// Done reports whether the job reached a final state
func (j Job) Done() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Runner executes detection jobs on a bounded pool of workers
type Runner struct {
	detector    detector.Detector
	videos      store.VideosStore
	groundTruth store.GroundTruthStore
	detections  store.DetectionEventsStore
	publisher   events.Publisher
	metrics     *metrics.Metrics

	// Options is passed to every Detect call
	Options detector.Options

	queue chan string

	mu      sync.RWMutex
	jobs    map[string]*Job
	byVideo map[string]string
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now func() time.Time
}

// NewRunner creates a runner. pub and m may be nil.
func NewRunner(
	det detector.Detector,
	videos store.VideosStore,
	groundTruth store.GroundTruthStore,
	detections store.DetectionEventsStore,
	pub events.Publisher,
	m *metrics.Metrics,
) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		detector:    det,
		videos:      videos,
		groundTruth: groundTruth,
		detections:  detections,
		publisher:   pub,
		metrics:     m,
		queue:       make(chan string, defaultQueueSize),
		jobs:        make(map[string]*Job),
		byVideo:     make(map[string]string),
		ctx:         ctx,
		cancel:      cancel,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start launches n workers. n below 1 starts one.
func (r *Runner) Start(n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Stop cancels running jobs, waits for the workers and marks anything
// still queued as cancelled.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()

	for {
		select {
		case id := <-r.queue:
			r.update(id, func(j *Job) {
				j.Status = StatusCancelled
				finished := r.now()
				j.FinishedAt = &finished
			})
		default:
			return
		}
	}
}

// Submit queues a detection job for a video. testSessionID may be empty.
func (r *Runner) Submit(videoID, testSessionID string) (Job, error) {
	job := &Job{
		ID:            uuid.NewString(),
		VideoID:       videoID,
		TestSessionID: testSessionID,
		Status:        StatusQueued,
		CreatedAt:     r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return Job{}, ErrStopped
	}
	select {
	case r.queue <- job.ID:
	default:
		return Job{}, ErrQueueFull
	}
	r.jobs[job.ID] = job
	r.byVideo[videoID] = job.ID
	return *job, nil
}

// Job returns a snapshot of the job with the given id
func (r *Runner) Job(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// LatestForVideo returns the most recently submitted job of a video
func (r *Runner) LatestForVideo(videoID string) (Job, bool) {
	r.mu.RLock()
	id, ok := r.byVideo[videoID]
	r.mu.RUnlock()
	if !ok {
		return Job{}, false
	}
	return r.Job(id)
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case id := <-r.queue:
			r.run(id)
		}
	}
}

// update applies fn to a job under the lock and returns the new snapshot
func (r *Runner) update(id string, fn func(j *Job)) Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}
	}
	fn(j)
	return *j
}

func (r *Runner) progress(id string, progress int) {
	snap := r.update(id, func(j *Job) { j.Progress = progress })
	if err := r.videos.UpdateVideoProcessing(snap.VideoID, model.VideoStatusProcessing, progress, ""); err != nil {
		log.Printf("processing: record progress of video %s: %v", snap.VideoID, err)
	}
	r.publish(snap)
}

func (r *Runner) publish(j Job) {
	if r.publisher != nil {
		r.publisher.Publish(events.VideoProcessingProgress, j)
	}
}

func (r *Runner) run(id string) {
	snap := r.update(id, func(j *Job) {
		j.Status = StatusRunning
		started := r.now()
		j.StartedAt = &started
	})
	r.metrics.JobStarted()

	n, err := r.process(r.ctx, snap)

	status := StatusCompleted
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		status = StatusCancelled
	default:
		status = StatusFailed
	}

	snap = r.update(id, func(j *Job) {
		j.Status = status
		j.Detections = n
		finished := r.now()
		j.FinishedAt = &finished
		if err != nil {
			j.Error = err.Error()
		} else {
			j.Progress = 100
		}
	})
	r.metrics.JobFinished(string(status))

	if err != nil {
		log.Printf("processing: job %s for video %s %s: %v", id, snap.VideoID, status, err)
		if uerr := r.videos.UpdateVideoProcessing(snap.VideoID, model.VideoStatusFailed, snap.Progress, err.Error()); uerr != nil {
			log.Printf("processing: mark video %s failed: %v", snap.VideoID, uerr)
		}
	}
	r.publish(snap)
}

// process runs the detector and stores its output. It returns the number
// of VRU detections.
func (r *Runner) process(ctx context.Context, job Job) (int, error) {
	video, err := r.videos.FetchVideo(job.VideoID)
	if err != nil {
		return 0, fmt.Errorf("fetch video: %w", err)
	}
	r.progress(job.ID, 0)

	found, err := r.detector.Detect(ctx, video.FilePath, r.Options)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("detect: %w", err)
	}
	r.progress(job.ID, 50)

	objects := make([]model.GroundTruthObject, 0, len(found))
	for _, d := range found {
		box := d.Box
		confidence := d.Confidence
		objects = append(objects, model.GroundTruthObject{
			VideoID:     video.ID,
			FrameNumber: d.Frame,
			Timestamp:   d.Timestamp,
			ClassLabel:  d.Class,
			BoundingBox: &box,
			Confidence:  &confidence,
			Validated:   false,
		})
	}
	if err := r.groundTruth.ReplaceVideoCandidates(video.ID, objects); err != nil {
		return 0, fmt.Errorf("store ground truth: %w", err)
	}
	r.progress(job.ID, 75)

	if job.TestSessionID != "" && len(found) > 0 {
		detections := make([]model.DetectionEvent, 0, len(found))
		for _, d := range found {
			box := d.Box
			frame := d.Frame
			detections = append(detections, model.DetectionEvent{
				TestSessionID: job.TestSessionID,
				Timestamp:     d.Timestamp,
				Confidence:    d.Confidence,
				ClassLabel:    d.Class,
				BoundingBox:   &box,
				FrameNumber:   &frame,
			})
		}
		if err := r.detections.CreateDetectionEvents(detections); err != nil {
			return 0, fmt.Errorf("store detection events: %w", err)
		}
		r.metrics.RecordDetectionEvents("detector", len(detections))
	}

	if err := r.videos.MarkGroundTruthGenerated(video.ID); err != nil {
		return 0, fmt.Errorf("mark ground truth generated: %w", err)
	}
	if err := r.videos.UpdateVideoProcessing(video.ID, model.VideoStatusCompleted, 100, ""); err != nil {
		return 0, fmt.Errorf("mark video completed: %w", err)
	}
	return len(found), nil
}
