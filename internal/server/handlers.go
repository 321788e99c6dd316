package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/veil-io/veil/internal/anonymizer"
	"github.com/veil-io/veil/internal/audit"
	"github.com/veil-io/veil/internal/operator"
	"github.com/veil-io/veil/internal/otel"
)

type anonymizeRequest struct {
	Text            string                               `json:"text"`
	AnalyzerResults []anonymizer.Span                    `json:"analyzer_results"`
	Anonymizers     map[string]anonymizer.OperatorConfig `json:"anonymizers,omitempty"`
}

type deanonymizeRequest struct {
	Text              string                               `json:"text"`
	AnonymizerResults []anonymizer.Span                    `json:"anonymizer_results"`
	Deanonymizers     map[string]anonymizer.OperatorConfig `json:"deanonymizers,omitempty"`
}

type engineResponse struct {
	Text  string                  `json:"text"`
	Items []anonymizer.ResultItem `json:"items"`
	RunID string                  `json:"run_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeEngineError maps engine failures to status codes: every ParamError
// is the caller's fault (400), anything else is ours (500).
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *operator.ParamError
	if errors.As(err, &paramErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	log.Error().Err(err).Func(otel.LogTraceFields(r.Context())).Msg("engine failure")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	}
	if s.auditStore == nil {
		resp["audit"] = "disabled"
	} else {
		resp["audit"] = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOperators(w http.ResponseWriter, r *http.Request) {
	catalog := s.engine.Catalog()
	writeJSON(w, http.StatusOK, map[string][]string{
		"anonymizers":   catalog.Anonymizers(),
		"deanonymizers": catalog.Deanonymizers(),
	})
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	result, err := s.engine.Anonymize(r.Context(), req.Text, req.AnalyzerResults, req.Anonymizers)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	resp := engineResponse{Text: result.Text, Items: result.Items}
	resp.RunID = s.recordRun(r, audit.DirectionAnonymize, req.Text, result.Items)

	log.Info().
		Int("candidates", len(req.AnalyzerResults)).
		Int("applied", len(result.Items)).
		Func(otel.LogTraceFields(r.Context())).
		Msg("anonymized text")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeanonymize(w http.ResponseWriter, r *http.Request) {
	var req deanonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	result, err := s.engine.Deanonymize(r.Context(), req.Text, req.AnonymizerResults, req.Deanonymizers)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	resp := engineResponse{Text: result.Text, Items: result.Items}
	resp.RunID = s.recordRun(r, audit.DirectionDeanonymize, req.Text, result.Items)
	writeJSON(w, http.StatusOK, resp)
}

// recordRun persists the run when auditing is enabled. A failed write is
// logged but never fails the request; the caller already has its result.
func (s *Server) recordRun(r *http.Request, direction, inputText string, items []anonymizer.ResultItem) string {
	if s.auditStore == nil {
		return ""
	}
	run, err := s.auditStore.Record(r.Context(), direction, inputText, items)
	if err != nil {
		log.Error().Err(err).Func(otel.LogTraceFields(r.Context())).Msg("recording audit run")
		return ""
	}
	return run.ID
}

func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if s.auditStore == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "audit trail is disabled"})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.auditStore.List(r.Context(), limit)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if runs == nil {
		runs = []audit.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleAuditGet(w http.ResponseWriter, r *http.Request) {
	if s.auditStore == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "audit trail is disabled"})
		return
	}

	run, err := s.auditStore.Get(r.Context(), chi.URLParam(r, "run_id"))
	if errors.Is(err, audit.ErrRunNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
		return
	}
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
