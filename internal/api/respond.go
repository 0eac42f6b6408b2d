package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "campusparking/internal/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError maps domain errors onto HTTP statuses: unknown ids are 404,
// interval overlaps 409, rejected arguments 400, anything else (including
// internal-consistency violations) 500.
func respondError(w http.ResponseWriter, err error) {
	var (
		notFound   *apperrors.NotFoundError
		conflict   *apperrors.ConflictError
		invalidArg *apperrors.InvalidArgumentError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &invalidArg):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, ErrorResponse{Error: err.Error()})
}
