/*
Package respond writes the JSON bodies every handler returns, and decides
which HTTP status a service error becomes.
*/
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/danielcfuentes/album-studio/pkg/storage"
	"github.com/goccy/go-json"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

/*
HTTPError is an error that already knows its status code and a message that
is safe to show the caller.
*/
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func JSON(w http.ResponseWriter, status int, payload any) {
	b, err := json.Marshal(payload)

	if err != nil {
		slog.Error("error encoding response", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"An unexpected error occurred"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

func Created(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusCreated, payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

/*
Error maps err to a status and writes it. Anything unrecognized is logged
and reported as a 500 without leaking its details.
*/
func Error(w http.ResponseWriter, err error) {
	var (
		httpErr       *HTTPError
		validationErr *models.ValidationError
		tooLarge      *services.FileTooLargeError
	)

	switch {
	case errors.As(err, &httpErr):
		JSON(w, httpErr.Status, ErrorResponse{Error: httpErr.Message})

	case errors.As(err, &validationErr):
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field})

	case errors.Is(err, models.ErrAlbumNotFound), errors.Is(err, models.ErrContactNotFound):
		JSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrObjectExists):
		JSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.As(err, &tooLarge):
		JSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: tooLarge.Error()})

	case errors.Is(err, services.ErrServerFileTooLarge):
		JSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})

	default:
		slog.Error("unhandled error", "error", err)
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred"})
	}
}

/*
DecodeJSON reads the request body into dest.
*/
func DecodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return NewError(http.StatusBadRequest, "request body is required")
	}

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return NewError(http.StatusBadRequest, "request body is not valid JSON")
	}

	return nil
}
