package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/skill"
)

const maxSkillRequestBytes = 1 << 20

type SkillHandler struct {
	router SkillRouter
	log    logger.Logger
}

func NewSkillHandler(router SkillRouter, log logger.Logger) *SkillHandler {
	return &SkillHandler{router: router, log: log}
}

// Handle answers a voice platform request with its response envelope
func (h *SkillHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req skill.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSkillRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid skill request",
			"message": err.Error(),
		})
		return
	}

	resp, err := h.router.Handle(r.Context(), req)
	if err != nil {
		h.log.Errorf("skill request %s (%s %s): %v", req.Request.RequestID, req.Request.Type, req.Request.Intent.Name, err)
		writeJSON(w, statusFor(err), map[string]any{
			"error":   "Failed to answer skill request",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
