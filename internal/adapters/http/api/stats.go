package api

import "net/http"

// handleStats serves GET /stats with pipeline counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, NewKind("method not allowed", ErrBadRequest))
		return
	}
	s.writeJSON(w, http.StatusOK, s.deps.GetStats(r.Context()))
}
