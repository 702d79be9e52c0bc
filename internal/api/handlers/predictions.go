package handlers

import (
	"net/http"

	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

type PredictionHandler struct {
	predictor Predictor
	log       logger.Logger
}

func NewPredictionHandler(predictor Predictor, log logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, log: log}
}

// GetProvider returns one provider's predictions at its Beacon St stop
func (h *PredictionHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	kind, err := transit.ParseProvider(r.PathValue("provider"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Unknown provider",
			"message": err.Error(),
		})
		return
	}

	result, err := h.predictor.Predictions(r.Context(), kind)
	if err != nil {
		h.log.Warnf("predictions for %s: %v", kind, err)
		writeJSON(w, statusFor(err), map[string]any{
			"error":   "Failed to fetch predictions",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"provider": kind.String(),
		"route":    result.Route,
		"stop":     result.Stop,
		"minutes":  result.Minutes,
		"count":    len(result.Minutes),
		"sentence": transit.Describe(result),
	})
}

// GetClosest returns the two soonest arrivals across providers
func (h *PredictionHandler) GetClosest(w http.ResponseWriter, r *http.Request) {
	direction := r.URL.Query().Get("direction")

	ranking, err := h.predictor.Closest(r.Context(), direction)
	if err != nil {
		h.log.Warnf("closest %q: %v", direction, err)
		writeJSON(w, statusFor(err), map[string]any{
			"error":   "Failed to rank predictions",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"stop":        ranking.Stop,
		"predictions": ranking.Predictions,
		"failed":      ranking.Failed,
		"count":       len(ranking.Predictions),
		"sentence":    ranking.Sentence(),
	})
}
