package endpoints

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/processing"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// multipart parts beyond this are spooled to disk by net/http
const uploadMemory = 32 << 20

type linkRequest struct {
	AssignmentReason string `json:"assignmentReason"`
}

type detectRequest struct {
	TestSessionID string `json:"testSessionId"`
}

// RegisterVideosEndpoints registers the video endpoints
func RegisterVideosEndpoints(s *server.Server) {
	videosStore := s.VideosStore
	projectsStore := s.ProjectsStore

	// POST /api/projects/{id}/videos - Upload a video (multipart "file")
	s.API.HandleFunc("/projects/{id}/videos", handleUploadVideo(projectsStore, videosStore, s.Config, s.InvalidateStats)).Methods("POST")

	// GET /api/projects/{id}/videos - Videos owned by or linked to a project
	s.API.HandleFunc("/projects/{id}/videos", handleListProjectVideos(projectsStore, videosStore)).Methods("GET")

	// GET /api/videos/{id} - Get video
	s.API.HandleFunc("/videos/{id}", handleGetVideo(videosStore)).Methods("GET")

	// DELETE /api/videos/{id} - Delete video and its file
	s.API.HandleFunc("/videos/{id}", handleDeleteVideo(videosStore, s.InvalidateStats)).Methods("DELETE")

	// POST /api/videos/{id}/projects/{projectId} - Link video to another project
	s.API.HandleFunc("/videos/{id}/projects/{projectId}", handleLinkVideo(projectsStore, videosStore)).Methods("POST")

	// DELETE /api/videos/{id}/projects/{projectId} - Remove a project link
	s.API.HandleFunc("/videos/{id}/projects/{projectId}", handleUnlinkVideo(videosStore)).Methods("DELETE")

	// POST /api/videos/{id}/detect - Queue a detection job
	s.API.HandleFunc("/videos/{id}/detect", handleStartDetection(videosStore, s.TestSessionsStore, s.Processing)).Methods("POST")

	// GET /api/videos/{id}/detect - Status of the latest detection job
	s.API.HandleFunc("/videos/{id}/detect", handleVideoDetectionStatus(videosStore, s.Processing)).Methods("GET")

	// GET /api/detection-jobs/{jobId} - Status of a detection job
	s.API.HandleFunc("/detection-jobs/{jobId}", handleDetectionJob(s.Processing)).Methods("GET")
}

func handleUploadVideo(projectsStore store.ProjectsStore, videosStore store.VideosStore, cfg *config.VRUConfig, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]

		if _, err := projectsStore.FetchProject(projectID); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		if r.ContentLength > cfg.MaxUploadBytes {
			respondWithStoreError(w, &http.MaxBytesError{Limit: cfg.MaxUploadBytes}, "video")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		if err := r.ParseMultipartForm(uploadMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondWithStoreError(w, err, "video")
				return
			}
			respondWithError(w, http.StatusBadRequest, "expected a multipart form with a file field")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer func() { _ = file.Close() }()

		if !model.IsAllowedVideoFile(header.Filename) {
			respondWithStoreError(w, &model.ValidationError{
				Field:   "file",
				Message: "unsupported video format, expected one of " + strings.Join(model.AllowedVideoExtensions, ", "),
			}, "video")
			return
		}

		video := &model.Video{
			ID:           uuid.NewString(),
			ProjectID:    projectID,
			OriginalName: header.Filename,
			Status:       model.VideoStatusUploaded,
		}
		video.Filename = video.ID + strings.ToLower(filepath.Ext(header.Filename))
		video.FilePath = filepath.Join(cfg.UploadDir, video.Filename)

		size, err := saveUpload(file, video.FilePath)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		video.FileSize = size

		err = videosStore.CreateVideo(video)
		auditResource(r, "video", video.ID, audit.OperationUpload, err)
		if err != nil {
			removeFile(video.FilePath)
			respondWithStoreError(w, err, "video")
			return
		}
		invalidate()

		respondWithJSON(w, http.StatusCreated, video)
	}
}

func saveUpload(src io.Reader, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		removeFile(path)
		return 0, fmt.Errorf("write upload: %w", err)
	}
	return n, nil
}

func removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to remove %s: %v", path, err)
	}
}

func handleListProjectVideos(projectsStore store.ProjectsStore, videosStore store.VideosStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]

		if _, err := projectsStore.FetchProject(projectID); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}

		videos, err := videosStore.ListProjectVideos(projectID)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		if videos == nil {
			videos = []model.Video{}
		}
		respondWithJSON(w, http.StatusOK, videos)
	}
}

func handleGetVideo(videosStore store.VideosStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		video, err := videosStore.FetchVideo(mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		respondWithJSON(w, http.StatusOK, video)
	}
}

func handleDeleteVideo(videosStore store.VideosStore, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		video, err := videosStore.FetchVideo(id)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		err = videosStore.DeleteVideo(id)
		auditResource(r, "video", id, audit.OperationDelete, err)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		removeFile(video.FilePath)
		invalidate()

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleLinkVideo(projectsStore store.ProjectsStore, videosStore store.VideosStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		videoID := vars["id"]
		projectID := vars["projectId"]

		video, err := videosStore.FetchVideo(videoID)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		if _, err := projectsStore.FetchProject(projectID); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		if video.ProjectID == projectID {
			respondWithStoreError(w, conflict("video already belongs to project"), "video link")
			return
		}

		var req linkRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "video link")
			return
		}

		link := &model.VideoProjectLink{
			VideoID:          videoID,
			ProjectID:        projectID,
			AssignmentReason: req.AssignmentReason,
		}
		err = videosStore.LinkVideo(link)
		auditResource(r, "video", videoID, audit.OperationLink, err)
		if err != nil {
			respondWithStoreError(w, err, "video link")
			return
		}

		respondWithJSON(w, http.StatusCreated, link)
	}
}

func handleUnlinkVideo(videosStore store.VideosStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		videoID := vars["id"]

		err := videosStore.UnlinkVideo(videoID, vars["projectId"])
		auditResource(r, "video", videoID, audit.OperationUnlink, err)
		if err != nil {
			respondWithStoreError(w, err, "video link")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStartDetection(videosStore store.VideosStore, sessionsStore store.TestSessionsStore, runner *processing.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		if _, err := videosStore.FetchVideo(videoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		var req detectRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}
		if req.TestSessionID != "" {
			session, err := sessionsStore.FetchTestSession(req.TestSessionID)
			if err != nil {
				respondWithStoreError(w, err, "test session")
				return
			}
			if session.VideoID != videoID {
				respondWithStoreError(w, &model.ValidationError{
					Field:   "testSessionId",
					Message: "test session belongs to another video",
				}, "test session")
				return
			}
		}

		job, err := runner.Submit(videoID, req.TestSessionID)
		auditResource(r, "video", videoID, audit.OperationDetect, err)
		if err != nil {
			if errors.Is(err, processing.ErrQueueFull) || errors.Is(err, processing.ErrStopped) {
				respondWithError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			respondWithStoreError(w, err, "detection job")
			return
		}

		respondWithJSON(w, http.StatusAccepted, job)
	}
}

func handleVideoDetectionStatus(videosStore store.VideosStore, runner *processing.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		video, err := videosStore.FetchVideo(videoID)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		job, ok := runner.LatestForVideo(videoID)
		if !ok {
			// jobs are kept in memory; fall back to what the video row says
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"videoId":  video.ID,
				"status":   video.Status,
				"progress": video.ProcessingProgress,
				"error":    video.ProcessingError,
			})
			return
		}
		respondWithJSON(w, http.StatusOK, job)
	}
}

func handleDetectionJob(runner *processing.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := runner.Job(mux.Vars(r)["jobId"])
		if !ok {
			respondWithStoreError(w, store.ErrNotFound, "detection job")
			return
		}
		respondWithJSON(w, http.StatusOK, job)
	}
}
