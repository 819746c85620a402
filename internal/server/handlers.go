package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"BitcoinHindsight/internal/dialogflow"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string     `json:"status"`
	Source    string     `json:"source,omitempty"`
	LastProbe *time.Time `json:"last_probe,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// handleHealth reports "degraded" once a probe has failed; the webhook keeps serving either way.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.probe != nil {
		st := s.probe.Status()
		resp.Source = st.Source
		if !st.CheckedAt.IsZero() {
			checked := st.CheckedAt
			resp.LastProbe = &checked
			if !st.OK {
				resp.Status = "degraded"
				resp.Error = st.Error
			}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req dialogflow.WebhookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.log.Error().Err(err).Str("request_id", reqID).Msg("Malformed webhook request")
		s.writeError(w, http.StatusBadRequest, "malformed webhook request")
		return
	}

	resp, err := s.agent.Handle(r.Context(), &req)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", reqID).Str("intent", req.IntentName()).Msg("Fulfillment failed")
		s.writeError(w, http.StatusInternalServerError, "fulfillment failed")
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
