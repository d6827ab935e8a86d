package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chunkd/internal/sink"
)

// handleListDocuments lists documents known to the sink.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sk := s.orchestrator.SinkClient()
	if sk == nil {
		jsonError(w, "no document sink configured", http.StatusServiceUnavailable)
		return
	}

	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	docs, err := sk.ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []sink.Document{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument removes a document and its chunks from the sink.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	sk := s.orchestrator.SinkClient()
	if sk == nil {
		jsonError(w, "no document sink configured", http.StatusServiceUnavailable)
		return
	}

	docID := chi.URLParam(r, "docID")
	if err := sk.DeleteDocument(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}
