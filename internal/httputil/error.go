package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func WriteError(w http.ResponseWriter, msg string, err error) {
	var (
		verr *bracket.ValidationError
		serr *bracket.StateError
		nerr *bracket.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		slog.Warn("bad request", "message", msg, "field", verr.Field, "error", err)
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: verr.Field})
	case errors.As(err, &nerr):
		NotFound(w, err.Error(), err)
	case errors.As(err, &serr):
		Conflict(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	WriteJSON(w, http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	slog.Warn("conflict", "message", msg, "error", err)
	WriteJSON(w, http.StatusConflict, errorResponse{Error: msg})
}
