package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleRefineStats(w http.ResponseWriter, r *http.Request) {
	rc := s.orchestrator.RefineClient()
	if rc == nil || rc.Stats == nil {
		jsonError(w, "refinement stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": rc.Model(),
		"stats": rc.Stats.Snapshot(),
	})
}
