package endpoints

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/identity"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// annotationRequest is the body of annotation create and update requests.
// Nil fields are left unchanged on update.
type annotationRequest struct {
	AnnotationSessionID *string            `json:"annotationSessionId"`
	DetectionID         *string            `json:"detectionId"`
	FrameNumber         *int               `json:"frameNumber"`
	Timestamp           *float64           `json:"timestamp"`
	EndTimestamp        *float64           `json:"endTimestamp"`
	VRUType             *model.VRUType     `json:"vruType"`
	BoundingBox         *model.BoundingBox `json:"boundingBox"`
	Occluded            *bool              `json:"occluded"`
	Truncated           *bool              `json:"truncated"`
	Difficult           *bool              `json:"difficult"`
	Notes               *string            `json:"notes"`
	Annotator           *string            `json:"annotator"`
	Validated           *bool              `json:"validated"`
}

func (req annotationRequest) applyTo(a *model.Annotation) {
	if req.AnnotationSessionID != nil {
		a.AnnotationSessionID = req.AnnotationSessionID
		if *req.AnnotationSessionID == "" {
			a.AnnotationSessionID = nil
		}
	}
	if req.DetectionID != nil {
		a.DetectionID = *req.DetectionID
	}
	if req.FrameNumber != nil {
		a.FrameNumber = *req.FrameNumber
	}
	if req.Timestamp != nil {
		a.Timestamp = *req.Timestamp
	}
	if req.EndTimestamp != nil {
		a.EndTimestamp = req.EndTimestamp
	}
	if req.VRUType != nil {
		a.VRUType = *req.VRUType
	}
	if req.BoundingBox != nil {
		a.BoundingBox = *req.BoundingBox
	}
	if req.Occluded != nil {
		a.Occluded = *req.Occluded
	}
	if req.Truncated != nil {
		a.Truncated = *req.Truncated
	}
	if req.Difficult != nil {
		a.Difficult = *req.Difficult
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.Annotator != nil {
		a.Annotator = *req.Annotator
	}
	if req.Validated != nil {
		a.Validated = *req.Validated
	}
}

type annotationSessionRequest struct {
	VideoID             string                         `json:"videoId"`
	ProjectID           string                         `json:"projectId"`
	AnnotatorName       *string                        `json:"annotatorName"`
	Status              *model.AnnotationSessionStatus `json:"status"`
	TotalDetections     *int                           `json:"totalDetections"`
	ValidatedDetections *int                           `json:"validatedDetections"`
}

func (req annotationSessionRequest) applyTo(s *model.AnnotationSession) error {
	if req.AnnotatorName != nil {
		s.AnnotatorName = *req.AnnotatorName
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return &model.ValidationError{Field: "status", Message: "must be active, paused or completed"}
		}
		s.Status = *req.Status
	}
	if req.TotalDetections != nil {
		s.TotalDetections = *req.TotalDetections
	}
	if req.ValidatedDetections != nil {
		s.ValidatedDetections = *req.ValidatedDetections
	}
	if s.TotalDetections < 0 || s.ValidatedDetections < 0 {
		return &model.ValidationError{Field: "totalDetections", Message: "counters must not be negative"}
	}
	return nil
}

// annotationUpdate is the payload of annotation_update events
type annotationUpdate struct {
	Action     string            `json:"action"`
	Annotation *model.Annotation `json:"annotation,omitempty"`
	ID         string            `json:"id"`
	VideoID    string            `json:"videoId,omitempty"`
}

// RegisterAnnotationsEndpoints registers the annotation and annotation
// session endpoints
func RegisterAnnotationsEndpoints(s *server.Server) {
	annotationsStore := s.AnnotationsStore
	videosStore := s.VideosStore

	// POST /api/videos/{id}/annotations - Create annotation
	s.API.HandleFunc("/videos/{id}/annotations", handleCreateAnnotation(videosStore, annotationsStore, s.Hub, s.InvalidateStats)).Methods("POST")

	// GET /api/videos/{id}/annotations - List annotations (?vruType=&validated=&sessionId=)
	s.API.HandleFunc("/videos/{id}/annotations", handleListAnnotations(videosStore, annotationsStore)).Methods("GET")

	// GET /api/videos/{id}/annotations/export - Export annotations as COCO-style JSON
	s.API.HandleFunc("/videos/{id}/annotations/export", handleExportAnnotations(videosStore, annotationsStore)).Methods("GET")

	// GET /api/annotations/{id} - Get annotation
	s.API.HandleFunc("/annotations/{id}", handleGetAnnotation(annotationsStore)).Methods("GET")

	// PUT /api/annotations/{id} - Update annotation
	s.API.HandleFunc("/annotations/{id}", handleUpdateAnnotation(annotationsStore, s.Hub)).Methods("PUT")

	// PATCH /api/annotations/{id}/validate - Mark annotation validated
	s.API.HandleFunc("/annotations/{id}/validate", handleValidateAnnotation(annotationsStore, s.Hub)).Methods("PATCH")

	// DELETE /api/annotations/{id} - Delete annotation
	s.API.HandleFunc("/annotations/{id}", handleDeleteAnnotation(annotationsStore, s.Hub, s.InvalidateStats)).Methods("DELETE")

	// POST /api/annotation-sessions - Start an annotation session
	s.API.HandleFunc("/annotation-sessions", handleCreateAnnotationSession(s.ProjectsStore, videosStore, annotationsStore)).Methods("POST")

	// GET /api/annotation-sessions/{id} - Get annotation session
	s.API.HandleFunc("/annotation-sessions/{id}", handleGetAnnotationSession(annotationsStore)).Methods("GET")

	// PUT /api/annotation-sessions/{id} - Update status and counters
	s.API.HandleFunc("/annotation-sessions/{id}", handleUpdateAnnotationSession(annotationsStore)).Methods("PUT")
}

func handleCreateAnnotation(videosStore store.VideosStore, annotationsStore store.AnnotationsStore, pub events.Publisher, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		if _, err := videosStore.FetchVideo(videoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		var req annotationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		switch {
		case req.Timestamp == nil:
			respondWithStoreError(w, &model.ValidationError{Field: "timestamp", Message: "is required"}, "annotation")
			return
		case req.VRUType == nil:
			respondWithStoreError(w, &model.ValidationError{Field: "vruType", Message: "is required"}, "annotation")
			return
		case req.BoundingBox == nil:
			respondWithStoreError(w, &model.ValidationError{Field: "boundingBox", Message: "is required"}, "annotation")
			return
		}

		annotation := &model.Annotation{VideoID: videoID}
		req.applyTo(annotation)
		if annotation.Annotator == "" {
			annotation.Annotator = identity.FromRequest(r).UserID
		}
		if err := annotation.Validate(); err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}

		err := annotationsStore.CreateAnnotation(annotation)
		auditResource(r, "annotation", annotation.ID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		invalidate()
		pub.Publish(events.AnnotationUpdate, annotationUpdate{Action: "created", Annotation: annotation, ID: annotation.ID, VideoID: videoID})

		respondWithJSON(w, http.StatusCreated, annotation)
	}
}

func annotationFilter(r *http.Request) (store.AnnotationFilter, error) {
	q := r.URL.Query()
	var filter store.AnnotationFilter

	if v := q.Get("vruType"); v != "" {
		t, err := model.VRUTypeString(v)
		if err != nil {
			return filter, &model.ValidationError{Field: "vruType", Message: "unknown VRU type"}
		}
		filter.VRUType = &t
	}
	if v := q.Get("validated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, badRequest("validated must be true or false")
		}
		filter.Validated = &b
	}
	filter.SessionID = q.Get("sessionId")
	return filter, nil
}

func handleListAnnotations(videosStore store.VideosStore, annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		filter, err := annotationFilter(r)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		if _, err := videosStore.FetchVideo(videoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		annotations, err := annotationsStore.ListAnnotations(videoID, filter)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		if annotations == nil {
			annotations = []model.Annotation{}
		}
		respondWithJSON(w, http.StatusOK, annotations)
	}
}

func handleGetAnnotation(annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		annotation, err := annotationsStore.FetchAnnotation(mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		respondWithJSON(w, http.StatusOK, annotation)
	}
}

func handleUpdateAnnotation(annotationsStore store.AnnotationsStore, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		annotation, err := annotationsStore.FetchAnnotation(id)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}

		var req annotationRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		req.applyTo(annotation)
		if err := annotation.Validate(); err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}

		err = annotationsStore.UpdateAnnotation(annotation)
		auditResource(r, "annotation", id, audit.OperationUpdate, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		pub.Publish(events.AnnotationUpdate, annotationUpdate{Action: "updated", Annotation: annotation, ID: id, VideoID: annotation.VideoID})

		respondWithJSON(w, http.StatusOK, annotation)
	}
}

func handleValidateAnnotation(annotationsStore store.AnnotationsStore, pub events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		annotation, err := annotationsStore.FetchAnnotation(id)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}

		req := struct {
			Validated *bool `json:"validated"`
		}{}
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		annotation.Validated = req.Validated == nil || *req.Validated

		err = annotationsStore.UpdateAnnotation(annotation)
		auditResource(r, "annotation", id, audit.OperationUpdate, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		pub.Publish(events.AnnotationUpdate, annotationUpdate{Action: "validated", Annotation: annotation, ID: id, VideoID: annotation.VideoID})

		respondWithJSON(w, http.StatusOK, annotation)
	}
}

func handleDeleteAnnotation(annotationsStore store.AnnotationsStore, pub events.Publisher, invalidate func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		err := annotationsStore.DeleteAnnotation(id)
		auditResource(r, "annotation", id, audit.OperationDelete, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		invalidate()
		pub.Publish(events.AnnotationUpdate, annotationUpdate{Action: "deleted", ID: id})

		w.WriteHeader(http.StatusNoContent)
	}
}

// COCO-style export
type (
	exportInfo struct {
		VideoID      string `json:"videoId"`
		OriginalName string `json:"originalName"`
		Description  string `json:"description"`
	}
	exportImage struct {
		ID          int     `json:"id"`
		FrameNumber int     `json:"frame_number"`
		Timestamp   float64 `json:"timestamp"`
		FileName    string  `json:"file_name"`
	}
	exportAnnotation struct {
		ID         string                 `json:"id"`
		ImageID    int                    `json:"image_id"`
		CategoryID int                    `json:"category_id"`
		BBox       [4]float64             `json:"bbox"`
		Area       float64                `json:"area"`
		IsCrowd    int                    `json:"iscrowd"`
		Attributes map[string]interface{} `json:"attributes"`
	}
	exportCategory struct {
		ID            int    `json:"id"`
		Name          string `json:"name"`
		Supercategory string `json:"supercategory"`
	}
	annotationExport struct {
		Info        exportInfo         `json:"info"`
		Images      []exportImage      `json:"images"`
		Annotations []exportAnnotation `json:"annotations"`
		Categories  []exportCategory   `json:"categories"`
	}
)

func categoryID(t model.VRUType) int {
	return int(t) + 1
}

func buildAnnotationExport(video *model.Video, annotations []model.Annotation) annotationExport {
	export := annotationExport{
		Info: exportInfo{
			VideoID:      video.ID,
			OriginalName: video.OriginalName,
			Description:  "VRU annotations",
		},
		Images:      []exportImage{},
		Annotations: make([]exportAnnotation, 0, len(annotations)),
	}

	for _, t := range model.VRUTypeValues() {
		export.Categories = append(export.Categories, exportCategory{
			ID:            categoryID(t),
			Name:          t.String(),
			Supercategory: "vru",
		})
	}

	frames := map[int]float64{}
	for _, a := range annotations {
		if _, ok := frames[a.FrameNumber]; !ok {
			frames[a.FrameNumber] = a.Timestamp
		}
		export.Annotations = append(export.Annotations, exportAnnotation{
			ID:         a.ID,
			ImageID:    a.FrameNumber,
			CategoryID: categoryID(a.VRUType),
			BBox:       [4]float64{a.BoundingBox.X, a.BoundingBox.Y, a.BoundingBox.Width, a.BoundingBox.Height},
			Area:       a.BoundingBox.Area(),
			Attributes: map[string]interface{}{
				"occluded":  a.Occluded,
				"truncated": a.Truncated,
				"difficult": a.Difficult,
				"validated": a.Validated,
				"timestamp": a.Timestamp,
			},
		})
	}

	for frame, ts := range frames {
		export.Images = append(export.Images, exportImage{
			ID:          frame,
			FrameNumber: frame,
			Timestamp:   ts,
			FileName:    video.ID + "_frame_" + strconv.Itoa(frame) + ".jpg",
		})
	}
	sort.Slice(export.Images, func(i, j int) bool { return export.Images[i].ID < export.Images[j].ID })

	return export
}

func handleExportAnnotations(videosStore store.VideosStore, annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := mux.Vars(r)["id"]

		filter, err := annotationFilter(r)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}
		video, err := videosStore.FetchVideo(videoID)
		if err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		annotations, err := annotationsStore.ListAnnotations(videoID, filter)
		if err != nil {
			respondWithStoreError(w, err, "annotation")
			return
		}

		respondWithJSON(w, http.StatusOK, buildAnnotationExport(video, annotations))
	}
}

func handleCreateAnnotationSession(projectsStore store.ProjectsStore, videosStore store.VideosStore, annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req annotationSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}
		if req.VideoID == "" {
			respondWithStoreError(w, &model.ValidationError{Field: "videoId", Message: "is required"}, "annotation session")
			return
		}
		if req.ProjectID == "" {
			respondWithStoreError(w, &model.ValidationError{Field: "projectId", Message: "is required"}, "annotation session")
			return
		}
		if _, err := projectsStore.FetchProject(req.ProjectID); err != nil {
			respondWithStoreError(w, err, "project")
			return
		}
		if _, err := videosStore.FetchVideo(req.VideoID); err != nil {
			respondWithStoreError(w, err, "video")
			return
		}

		session := &model.AnnotationSession{
			VideoID:   req.VideoID,
			ProjectID: req.ProjectID,
			Status:    model.AnnotationSessionActive,
		}
		if err := req.applyTo(session); err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}
		if session.AnnotatorName == "" {
			session.AnnotatorName = identity.FromRequest(r).UserID
		}

		err := annotationsStore.CreateAnnotationSession(session)
		auditResource(r, "annotation_session", session.ID, audit.OperationCreate, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}

		respondWithJSON(w, http.StatusCreated, session)
	}
}

func handleGetAnnotationSession(annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := annotationsStore.FetchAnnotationSession(mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}
		respondWithJSON(w, http.StatusOK, session)
	}
}

func handleUpdateAnnotationSession(annotationsStore store.AnnotationsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		session, err := annotationsStore.FetchAnnotationSession(id)
		if err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}

		var req annotationSessionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}
		if err := req.applyTo(session); err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}

		err = annotationsStore.UpdateAnnotationSession(session)
		auditResource(r, "annotation_session", id, audit.OperationUpdate, err)
		if err != nil {
			respondWithStoreError(w, err, "annotation session")
			return
		}

		respondWithJSON(w, http.StatusOK, session)
	}
}
