package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/randytsao24/nextshuttle/internal/skill"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transit.ErrUnknownProvider),
		errors.Is(err, transit.ErrUnknownDirection),
		errors.Is(err, skill.ErrUnknownRequestType):
		return http.StatusBadRequest
	case errors.Is(err, transit.ErrProviderUnavailable),
		errors.Is(err, transit.ErrAllProvidersFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
