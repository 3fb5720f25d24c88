package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/groundtruth"
	"github.com/vrulab/vru-validation/pkg/identity"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// groundTruthRequest is one element of a bulk create body
type groundTruthRequest struct {
	FrameNumber int                `json:"frameNumber"`
	Timestamp   *float64           `json:"timestamp"`
	ClassLabel  *model.VRUType     `json:"classLabel"`
	BoundingBox *model.BoundingBox `json:"boundingBox"`
	Confidence  *float64           `json:"confidence"`
	Validated   *bool              `json:"validated"`
	Difficult   bool               `json:"difficult"`
}

func (req groundTruthRequest) toModel(videoID string, index int) (model.GroundTruthObject, error) {
	if req.Timestamp == nil {
		return model.GroundTruthObject{}, &model.ValidationError{Field: fmt.Sprintf("[%d].timestamp", index), Message: "is required"}
	}
	if req.ClassLabel == nil {
		return model.GroundTruthObject{}, &model.ValidationError{Field: fmt.Sprintf("[%d].classLabel", index), Message: "is required"}
	}

	obj := model.GroundTruthObject{
		VideoID:     videoID,
		FrameNumber: req.FrameNumber,
		Timestamp:   *req.Timestamp,
		ClassLabel:  *req.ClassLabel,
		BoundingBox: req.BoundingBox,
		Confidence:  req.Confidence,
		Validated:   true,
		Difficult:   req.Difficult,
	}
	if req.Validated != nil {
		obj.Validated = *req.Validated
	}
	if err := obj.Validate(); err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			return obj, &model.ValidationError{Field: fmt.Sprintf("[%d].%s", index, validationErr.Field), Message: validationErr.Message}
		}
		return obj, err
	}
	return obj, nil
}

// RegisterGroundTruthEndpoints registers the ground truth endpoints
func RegisterGroundTruthEndpoints(s *server.Server) {
	videosStore := s.VideosStore
	groundTruthStore := s.GroundTruthStore

	// GET /api/videos/{id}/ground-truth - List ground truth (?classLabel=)
	s.API.HandleFunc("/videos/{id}/ground-truth", handleListGroundTruth(videosStore, groundTruthStore)).Methods("GET")

	// POST /api/videos/{id}/ground-truth - Bulk create ground truth
	s.API.HandleFunc("/videos/{id}/ground-truth", handleCreateGroundTruth(videosStore, groundTruthStore)).Methods("POST")

	// POST /api/ground-truth/import - Load a YAML ground truth document
	s.API.HandleFunc("/ground-truth/import", handleImportGroundTruth(videosStore, groundTruthStore)).Methods("POST")

	// DELETE /api/ground-truth/{id} - Delete a ground truth object
	s.API.HandleFunc("/ground-truth/{id}", handleDeleteGroundTruth(groundTruthStore)).Methods("DELETE")
}

func handleListGroundTruth(videosStore store.VideosStore, groundTruthStore store.GroundTruthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		var classLabel *model.VRUType
		if v := r.URL.Query().Get("classLabel"); v != "" {
			label, err := model.VRUTypeString(v)
			if err != nil {
				respondWithStoreError(w, &model.ValidationError{Field: "classLabel", Message: "unknown VRU type"}, "ground truth")
				return
			}
			classLabel = &label
		}

		if _, err := videosStore.FetchVideo(videoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		objects, err := groundTruthStore.ListGroundTruth(videoID, classLabel)
		if err != nil {
			respondWithStoreError(w, err, "ground truth")
			return
		}
		if objects == nil {
			objects = []model.GroundTruthObject{}
		}
		respondWithJSON(w, http.StatusOK, objects)
	}
}

func handleCreateGroundTruth(videosStore store.VideosStore, groundTruthStore store.GroundTruthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		if _, err := videosStore.FetchVideo(videoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		var reqs []groundTruthRequest
		if err := decodeJSON(r, &reqs); err != nil {
			respondWithStoreError(w, err, "ground truth")
			return
		}
		if len(reqs) == 0 {
			respondWithStoreError(w, badRequest("expected at least one ground truth object"), "ground truth")
			return
		}

		objects := make([]model.GroundTruthObject, 0, len(reqs))
		for i, req := range reqs {
			obj, err := req.toModel(videoID, i)
			if err != nil {
				respondWithStoreError(w, err, "ground truth")
				return
			}
			objects = append(objects, obj)
		}

		err := groundTruthStore.CreateGroundTruth(objects)
		auditResource(r, "ground_truth", videoID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "ground truth")
			return
		}

		respondWithJSON(w, http.StatusCreated, objects)
	}
}

func handleImportGroundTruth(videosStore store.VideosStore, groundTruthStore store.GroundTruthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identity.FromRequest(r)
		loader := groundtruth.NewLoader(videosStore, groundTruthStore).
			WithUserID(id.UserID).
			WithClientIP(id.ClientIP()).
			WithSource("api")

		res, err := loader.LoadFromReader(r.Body)
		if err != nil {
			if errors.Is(err, groundtruth.ErrInvalidDocument) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			respondWithStoreError(w, err, "video")
			return
		}

		respondWithJSON(w, http.StatusCreated, res)
	}
}

func handleDeleteGroundTruth(groundTruthStore store.GroundTruthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		err := groundTruthStore.DeleteGroundTruth(id)
		auditResource(r, "ground_truth", id, audit.OperationDelete, err)
		if err != nil {
			respondWithStoreError(w, err, "ground truth object")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
