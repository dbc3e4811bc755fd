package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/engine"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
)

// maxBodyBytes caps request bodies, imports included.
const maxBodyBytes = 8 << 20

var validate = validator.New()

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps editor and host errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrMalformedImport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, graph.ErrInvalidOperation), errors.Is(err, editor.ErrReadOnly), errors.Is(err, editor.ErrActive):
		return http.StatusConflict
	case errors.Is(err, engine.ErrQueueFull), errors.Is(err, engine.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, engine.ErrClosed), errors.Is(err, editor.ErrNotStarted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// decode reads a JSON body into v and runs its validate tags. A false
// return means the response has been written.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Field(), e.Tag()))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
