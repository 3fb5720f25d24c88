package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

func TestListGroundTruth(t *testing.T) {
	env := newTestEnv(t)
	pedestrian := model.VRUTypePedestrian
	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.groundTruth.On("ListGroundTruth", "v1", &pedestrian).
		Return([]model.GroundTruthObject{{ID: "g1", VideoID: "v1", Timestamp: 1, ClassLabel: pedestrian}}, nil).Once()

	w := env.do(t, "GET", "/api/videos/v1/ground-truth?classLabel=pedestrian", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got []model.GroundTruthObject
	decodeResponse(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].ID)
}

func TestListGroundTruth_UnknownClass(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/videos/v1/ground-truth?classLabel=truck", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateGroundTruth(t *testing.T) {
	env := newTestEnv(t)
	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil)
	env.groundTruth.On("CreateGroundTruth", mock.MatchedBy(func(objs []model.GroundTruthObject) bool {
		return len(objs) == 2 && objs[0].Validated && !objs[1].Validated && objs[1].ClassLabel == model.VRUTypeMotorcyclist
	})).Return(nil).Once()

	w := env.do(t, "POST", "/api/videos/v1/ground-truth", `[
		{"timestamp": 1.0, "classLabel": "pedestrian"},
		{"timestamp": 2.0, "classLabel": "motorcyclist", "validated": false, "confidence": 0.8}
	]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, "POST", "/api/videos/v1/ground-truth", `[{"timestamp": 1.0, "classLabel": "pedestrian", "confidence": 1.5}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "[0].confidence: must be between 0 and 1", errorMessage(t, w))

	w = env.do(t, "POST", "/api/videos/v1/ground-truth", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportGroundTruth(t *testing.T) {
	env := newTestEnv(t)
	env.videos.On("FetchVideo", "v1").Return(sampleVideo(), nil).Once()
	env.groundTruth.On("ReplaceVideoGroundTruth", "v1", mock.MatchedBy(func(objs []model.GroundTruthObject) bool {
		return len(objs) == 1 && objs[0].ClassLabel == model.VRUTypeCyclist
	})).Return(nil).Once()

	w := env.do(t, "POST", "/api/ground-truth/import", `video: v1
replace: true
objects:
  - timestamp: 1.5
    class: cyclist
`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"videoId":"v1","objects":1,"replaced":true}`, w.Body.String())
}

func TestImportGroundTruth_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.videos.On("FetchVideo", "missing").Return(nil, fmt.Errorf("fetch: %w", store.ErrNotFound)).Once()

	w := env.do(t, "POST", "/api/ground-truth/import", "video: [\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", "/api/ground-truth/import", "video: missing\nobjects:\n  - timestamp: 1\n    class: pedestrian\n")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteGroundTruth(t *testing.T) {
	env := newTestEnv(t)
	env.groundTruth.On("DeleteGroundTruth", "g1").Return(nil).Once()

	assert.Equal(t, http.StatusNoContent, env.do(t, "DELETE", "/api/ground-truth/g1", nil).Code)
}
