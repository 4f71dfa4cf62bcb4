package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/melee/internal/adapters/repository"
	"github.com/okian/melee/internal/domain/report"
	"github.com/okian/melee/pkg/logger"
)

const defaultRecentLimit = 20

// handleReport serves GET /reports/{id}.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, NewKind("method not allowed", ErrBadRequest))
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/reports/")
	if runID == "" || strings.Contains(runID, "/") {
		s.writeError(w, NewKind("run id is required", ErrBadRequest))
		return
	}

	rep, err := s.deps.Report(r.Context(), runID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.writeError(w, NewKind("report "+runID, ErrNotFound))
		return
	case err != nil:
		s.log.Error(r.Context(), "fetch report failed",
			logger.String("run_id", runID),
			logger.Error(err),
		)
		s.writeError(w, NewKind("fetch report", ErrInternal))
		return
	}

	s.writeJSON(w, http.StatusOK, rep)
}

// recentResponse lists recent report summaries.
type recentResponse struct {
	Reports []report.Summary `json:"reports"`
	Count   int              `json:"count"`
}

// handleRecent serves GET /reports?limit=N.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, NewKind("method not allowed", ErrBadRequest))
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, NewKind("limit must be a positive integer", ErrBadRequest))
			return
		}
		limit = n
	}

	summaries, err := s.deps.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error(r.Context(), "list reports failed", logger.Error(err))
		s.writeError(w, NewKind("list reports", ErrInternal))
		return
	}

	if summaries == nil {
		summaries = []report.Summary{}
	}
	s.writeJSON(w, http.StatusOK, recentResponse{Reports: summaries, Count: len(summaries)})
}
