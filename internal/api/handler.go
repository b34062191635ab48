package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/davegarvey/countries-api/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CountryHandler translates HTTP requests into query service calls.
type CountryHandler struct {
	service service.QueryService
	logger  *zap.Logger
}

// NewCountryHandler creates a new handler with a given service.
func NewCountryHandler(s service.QueryService, logger *zap.Logger) *CountryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CountryHandler{
		service: s,
		logger:  logger,
	}
}

// ServeQuery answers every dataset route: /countries..., /regions,
// /subregions, /currencies, /languages, /search and /stats.
func (h *CountryHandler) ServeQuery(w http.ResponseWriter, r *http.Request) {
	req := service.Request{
		Method: r.Method,
		Path:   splitPath(r.URL.Path),
		Query:  r.URL.Query(),
	}

	res, err := h.service.Handle(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if res.PlainText {
		text, _ := res.Payload.(string)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(text)); err != nil {
			h.logger.Error("failed to write response", zap.Error(err))
		}
		return
	}

	h.respondJSON(w, http.StatusOK, res.Payload)
}

func (h *CountryHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *service.QueryError
	if errors.As(err, &qe) {
		h.respondJSON(w, qe.StatusCode(), errorResponse{Error: qe.Message, Message: qe.Detail})
		return
	}

	// Anything unclassified is still a miss for the client, never an empty 200.
	h.logger.Error("unexpected query error",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err))
	h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "Endpoint not found"})
}

// respondJSON writes payload indented by two spaces.
func (h *CountryHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	respondJSON(w, status, payload, h.logger)
}

func respondJSON(w http.ResponseWriter, status int, payload any, logger *zap.Logger) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, `{"error": "Failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
