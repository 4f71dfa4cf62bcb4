package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/okian/melee/internal/app"
	"github.com/okian/melee/internal/domain/combatant"
	"github.com/okian/melee/internal/domain/dedupe"
	"github.com/okian/melee/internal/domain/event"
	"github.com/okian/melee/internal/domain/model"
	"github.com/okian/melee/internal/profiles"
	"github.com/okian/melee/pkg/logger"
)

// analyzeRequest is the submission payload.
type analyzeRequest struct {
	Profile   string          `json:"profile"`
	Combatant combatant.Info  `json:"combatant"`
	Encounter event.Encounter `json:"encounter"`
	Events    []event.Event   `json:"events"`
}

// analyzeResponse acknowledges an accepted or duplicate submission.
type analyzeResponse struct {
	RunID     string `json:"run_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
	Events    int    `json:"events"`
}

func (r *analyzeRequest) validate(maxEvents int) error {
	switch {
	case r.Combatant.ID == 0:
		return NewKind("combatant.id is required", ErrBadRequest)
	case len(r.Events) == 0:
		return NewKind("events must not be empty", ErrBadRequest)
	case len(r.Events) > maxEvents:
		return NewKind("too many events", ErrBadRequest)
	case r.Encounter.EndTime <= r.Encounter.StartTime:
		return NewKind("encounter end must be after start", ErrBadRequest)
	}
	return nil
}

// handleAnalyze accepts a combat log and enqueues it for analysis.
// Responds 202 with the run id, or 200 with duplicate=true when the same
// payload was already submitted.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, NewKind("method not allowed", ErrBadRequest))
		return
	}

	// The raw body doubles as the dedupe key.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, WrapKind("read body", ErrBadRequest, err))
		return
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, WrapKind("decode request", ErrBadRequest, err))
		return
	}
	if err := req.validate(s.deps.MaxEvents()); err != nil {
		s.writeError(w, err)
		return
	}

	job := model.Job{
		Profile:   req.Profile,
		Combatant: req.Combatant,
		Encounter: req.Encounter,
		Events:    req.Events,
	}

	runID, duplicate, err := s.deps.Submit(r.Context(), job, dedupe.HashBytes(body))
	switch {
	case errors.Is(err, profiles.ErrUnknownProfile):
		s.writeError(w, WrapKind("submit", ErrBadRequest, err))
		return
	case errors.Is(err, app.ErrBackpressure):
		s.writeError(w, WrapKind("submit", ErrTooManyRequests, err))
		return
	case err != nil:
		s.log.Error(r.Context(), "submit failed", logger.Error(err))
		s.writeError(w, NewKind("submit", ErrInternal))
		return
	}

	resp := analyzeResponse{
		RunID:     runID,
		Duplicate: duplicate,
		Events:    len(req.Events),
	}
	if duplicate {
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	s.writeJSON(w, http.StatusAccepted, resp)
}
