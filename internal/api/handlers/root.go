package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "nextshuttle",
		"description": "Next shuttle arrivals at Beacon St @ Mass Ave for voice assistants",
		"version":     Version,
		"endpoints": map[string]string{
			"GET /":                       "API information",
			"GET /health":                 "Health check",
			"POST /alexa":                 "Voice skill requests",
			"GET /predictions/{provider}": "Predictions for mit, onebus or harvard",
			"GET /predictions/closest":    "Two soonest arrivals (?direction=mit|boston)",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
