package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"cartshare/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusForKind maps a business failure kind to its HTTP status: permission
// 403, state/conflict/capacity 409, validation 422.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindPermission:
		return http.StatusForbidden
	case service.KindState, service.KindConflict, service.KindCapacity:
		return http.StatusConflict
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeServiceError translates a service-layer error into a JSON error
// response. Business failures and not-found sentinels are expected
// outcomes; anything else is a fault and logged as such.
func writeServiceError(w http.ResponseWriter, err error) {
	if kind := service.ErrorKind(err); kind != 0 {
		writeJSON(w, statusForKind(kind), errorResponse{Error: err.Error(), Kind: kind.String()})
		return
	}

	switch {
	case errors.Is(err, service.ErrListNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	log.WithError(err).Error("Unexpected service error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
