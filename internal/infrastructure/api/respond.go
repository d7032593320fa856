package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	}
	respondJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.String()})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindAuthenticationFailed:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists, domain.KindSiteInactive:
		return http.StatusConflict
	case domain.KindMalformed:
		return http.StatusUnprocessableEntity
	case domain.KindRemoteRejected:
		return http.StatusBadGateway
	case domain.KindRenderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
