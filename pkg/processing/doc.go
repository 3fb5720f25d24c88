// Package processing runs detection jobs over uploaded videos.
//
// A Runner owns a fixed number of worker goroutines that drain a buffered
// job queue. Each job sends the video to the detector, stores the returned
// detections as unvalidated ground truth candidates (and as detection
// events when the job belongs to a test session) and reports progress
// through video_processing_progress events. Job state lives in memory only.
package processing
