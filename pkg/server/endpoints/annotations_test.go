package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/events"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

func sampleAnnotation() *model.Annotation {
	return &model.Annotation{
		ID:          "a1",
		VideoID:     "v1",
		FrameNumber: 30,
		Timestamp:   1.0,
		VRUType:     model.VRUTypeCyclist,
		BoundingBox: model.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40},
	}
}

func nextEnvelope(t *testing.T, sub *events.Subscription) events.Envelope {
	t.Helper()
	select {
	case env := <-sub.C:
		return env
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return events.Envelope{}
	}
}

func TestCreateAnnotation(t *testing.T) {
	env := newTestEnv(t)
	sub := env.server.Hub.Subscribe(4)
	defer env.server.Hub.Unsubscribe(sub)

	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.annotations.On("CreateAnnotation", mock.MatchedBy(func(a *model.Annotation) bool {
		return a.VideoID == "v1" && a.VRUType == model.VRUTypePedestrian && a.Annotator == "anonymous"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*model.Annotation).ID = "a1"
	}).Return(nil).Once()

	w := env.do(t, "POST", "/api/videos/v1/annotations", `{
		"timestamp": 2.5,
		"frameNumber": 75,
		"vruType": "pedestrian",
		"boundingBox": {"x": 1, "y": 2, "width": 3, "height": 4}
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := nextEnvelope(t, sub)
	assert.Equal(t, events.AnnotationUpdate, got.Type)
	update, ok := got.Data.(annotationUpdate)
	require.True(t, ok)
	assert.Equal(t, "created", update.Action)
	assert.Equal(t, "a1", update.ID)
}

func TestCreateAnnotation_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing timestamp", `{"vruType":"cyclist","boundingBox":{"x":0,"y":0,"width":1,"height":1}}`, "timestamp"},
		{"missing box", `{"timestamp":1,"vruType":"cyclist"}`, "boundingBox"},
		{"end before start", `{"timestamp":2,"endTimestamp":1,"vruType":"cyclist","boundingBox":{"x":0,"y":0,"width":1,"height":1}}`, "endTimestamp"},
		{"empty box", `{"timestamp":1,"vruType":"cyclist","boundingBox":{"x":0,"y":0,"width":0,"height":1}}`, "boundingBox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()

			w := env.do(t, "POST", "/api/videos/v1/annotations", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, errorMessage(t, w), tt.field+":")
		})
	}
}

func TestListAnnotations_Filters(t *testing.T) {
	env := newTestEnv(t)
	cyclist := model.VRUTypeCyclist
	validated := true
	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.annotations.On("ListAnnotations", "v1", store.AnnotationFilter{
		VRUType:   &cyclist,
		Validated: &validated,
		SessionID: "as1",
	}).Return([]model.Annotation{*sampleAnnotation()}, nil).Once()

	w := env.do(t, "GET", "/api/videos/v1/annotations?vruType=cyclist&validated=true&sessionId=as1", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got []model.Annotation
	decodeResponse(t, w, &got)
	assert.Len(t, got, 1)
}

func TestListAnnotations_BadFilter(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, "GET", "/api/videos/v1/annotations?vruType=horse", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, "GET", "/api/videos/v1/annotations?validated=maybe", nil).Code)
}

func TestUpdateAnnotation(t *testing.T) {
	env := newTestEnv(t)
	env.annotations.On("FetchAnnotation", "a1").Return(sampleAnnotation(), nil).Once()
	env.annotations.On("UpdateAnnotation", mock.MatchedBy(func(a *model.Annotation) bool {
		return a.Occluded && a.Notes == "partly hidden" && a.VRUType == model.VRUTypeCyclist
	})).Return(nil).Once()

	w := env.do(t, "PUT", "/api/annotations/a1", `{"occluded": true, "notes": "partly hidden"}`)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestValidateAnnotation(t *testing.T) {
	env := newTestEnv(t)
	env.annotations.On("FetchAnnotation", "a1").Return(sampleAnnotation(), nil).Twice()
	env.annotations.On("UpdateAnnotation", mock.MatchedBy(func(a *model.Annotation) bool { return a.Validated })).Return(nil).Once()
	env.annotations.On("UpdateAnnotation", mock.MatchedBy(func(a *model.Annotation) bool { return !a.Validated })).Return(nil).Once()

	w := env.do(t, "PATCH", "/api/annotations/a1/validate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, "PATCH", "/api/annotations/a1/validate", `{"validated": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteAnnotation(t *testing.T) {
	env := newTestEnv(t)
	env.annotations.On("DeleteAnnotation", "a1").Return(nil).Once()

	assert.Equal(t, http.StatusNoContent, env.do(t, "DELETE", "/api/annotations/a1", nil).Code)
}

func TestExportAnnotations(t *testing.T) {
	env := newTestEnv(t)
	second := sampleAnnotation()
	second.ID = "a2"
	second.VRUType = model.VRUTypePedestrian
	third := sampleAnnotation()
	third.ID = "a3"
	third.FrameNumber = 5
	third.Timestamp = 0.2

	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.annotations.On("ListAnnotations", "v1", store.AnnotationFilter{}).
		Return([]model.Annotation{*sampleAnnotation(), *second, *third}, nil).Once()

	w := env.do(t, "GET", "/api/videos/v1/annotations/export", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got annotationExport
	decodeResponse(t, w, &got)
	require.Len(t, got.Images, 2)
	assert.Equal(t, 5, got.Images[0].ID)
	assert.Equal(t, 30, got.Images[1].ID)
	assert.Len(t, got.Annotations, 3)
	assert.Len(t, got.Categories, len(model.VRUTypeValues()))
	assert.Equal(t, [4]float64{10, 20, 30, 40}, got.Annotations[0].BBox)
	assert.Equal(t, 1200.0, got.Annotations[0].Area)
	assert.Equal(t, categoryID(model.VRUTypeCyclist), got.Annotations[0].CategoryID)
}

func TestAnnotationSessions(t *testing.T) {
	env := newTestEnv(t)
	env.projects.On("FetchProject", "p1").Return(sampleProject(), nil).Once()
	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.annotations.On("CreateAnnotationSession", mock.MatchedBy(func(s *model.AnnotationSession) bool {
		return s.Status == model.AnnotationSessionActive && s.AnnotatorName == "kim"
	})).Return(nil).Once()

	w := env.do(t, "POST", "/api/annotation-sessions", `{"videoId":"v1","projectId":"p1","annotatorName":"kim"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	existing := &model.AnnotationSession{ID: "as1", VideoID: "v1", ProjectID: "p1", Status: model.AnnotationSessionActive}
	env.annotations.On("FetchAnnotationSession", "as1").Return(existing, nil)
	env.annotations.On("UpdateAnnotationSession", mock.MatchedBy(func(s *model.AnnotationSession) bool {
		return s.Status == model.AnnotationSessionCompleted && s.TotalDetections == 12 && s.ValidatedDetections == 10
	})).Return(nil).Once()

	w = env.do(t, "PUT", "/api/annotation-sessions/as1", `{"status":"completed","totalDetections":12,"validatedDetections":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, "PUT", "/api/annotation-sessions/as1", `{"status":"sleeping"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, "GET", "/api/annotation-sessions/as1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
