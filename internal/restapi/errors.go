package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/models"
)

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	response := struct {
		Code        int    `json:"code"`
		CurrentTime int64  `json:"currentTime"`
		Text        string `json:"text"`
		Version     int    `json:"version"`
	}{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "internal server error",
		Version:     2,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	encoderErr := json.NewEncoder(w).Encode(response)
	if encoderErr != nil {
		api.Logger.Error("failed to encode server error response", "error", encoderErr)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

func (api *RestAPI) fieldErrorResponse(w http.ResponseWriter, r *http.Request, field string, err error) {
	api.validationErrorResponse(w, r, map[string][]string{field: {err.Error()}})
}

// errorResponse maps a core error onto a status code. Lookups that miss
// answer 404 with the error text; anything else is a server error.
func (api *RestAPI) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrStationNotFound),
		errors.Is(err, models.ErrLineNotFound),
		errors.Is(err, models.ErrTrainNotFound),
		errors.Is(err, models.ErrDifferentLines):
		api.sendResponse(w, r, models.NewResponse(http.StatusNotFound, nil, err.Error()))
	default:
		api.serverErrorResponse(w, r, err)
	}
}
