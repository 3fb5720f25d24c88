package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/config"
	"github.com/vrulab/vru-validation/pkg/identity"
	"github.com/vrulab/vru-validation/pkg/model"
	"github.com/vrulab/vru-validation/pkg/server/store"
)

// requestError carries a status code chosen by the handler
type requestError struct {
	code    int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &requestError{code: http.StatusBadRequest, message: message}
}

func conflict(message string) error {
	return &requestError{code: http.StatusConflict, message: message}
}

var errEmptyBody = badRequest("request body is empty")

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		code = http.StatusInternalServerError
		response = []byte(`{"error":{"message":"internal server error"}}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps err to a status code. resource names the
// missing thing in 404 messages.
func respondWithStoreError(w http.ResponseWriter, err error, resource string) {
	var reqErr *requestError
	var validationErr *model.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &reqErr):
		respondWithError(w, reqErr.code, reqErr.message)
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, resource+" already exists")
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &tooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
	default:
		log.Printf("internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into v. Malformed JSON is a 400; values the
// model types reject (unknown enum values) are a 422.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return errEmptyBody
	case errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return badRequest("malformed JSON body")
	case errors.As(err, &typeErr):
		return badRequest("invalid value for " + typeErr.Field)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &model.ValidationError{Field: "body", Message: err.Error()}
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := decodeJSON(r, v); !errors.Is(err, errEmptyBody) {
		return err
	}
	return nil
}

// listOptions reads limit and offset (or skip) from the query string
func listOptions(r *http.Request, cfg *config.VRUConfig) (store.ListOptions, error) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return store.ListOptions{}, badRequest("limit must be a non-negative integer")
		}
		limit = n
	}

	offsetParam := q.Get("offset")
	if offsetParam == "" {
		offsetParam = q.Get("skip")
	}
	offset := 0
	if offsetParam != "" {
		n, err := strconv.Atoi(offsetParam)
		if err != nil || n < 0 {
			return store.ListOptions{}, badRequest("offset must be a non-negative integer")
		}
		offset = n
	}

	return store.ListOptions{Limit: cfg.ClampLimit(limit), Offset: offset}, nil
}

// auditResource records a create/update/delete style operation
func auditResource(r *http.Request, resourceType, resourceID, operation string, err error) {
	id := identity.FromRequest(r)
	event := audit.ResourceEvent{
		UserID:       id.UserID,
		ClientIP:     id.ClientIP(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Operation:    operation,
		Success:      err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}
