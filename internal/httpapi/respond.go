package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/buyapp/order-service/internal/apperr"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError is the single place where error kinds become HTTP
// status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var httpStatus int
	kind := apperr.KindOf(err)

	switch kind {
	case apperr.KindInvalidArgument:
		httpStatus = http.StatusBadRequest
	case apperr.KindNotFound:
		httpStatus = http.StatusNotFound
	case apperr.KindForbidden:
		httpStatus = http.StatusForbidden
	case apperr.KindConflict:
		httpStatus = http.StatusConflict
	case apperr.KindDependency:
		httpStatus = http.StatusBadGateway
	default:
		httpStatus = http.StatusInternalServerError
	}

	if httpStatus == http.StatusInternalServerError || httpStatus == http.StatusBadGateway {
		log.Error().Err(err).Msg("request failed")
	}

	respondError(w, httpStatus, kind.String(), apperr.MessageOf(err))
}
