package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"chunkd/internal/chunker"
)

// chunkRequest is the body of the synchronous chunking endpoint. Any
// omitted override falls back to the server-wide chunking defaults.
type chunkRequest struct {
	Text string `json:"text"`

	TargetSize      *int     `json:"target_size,omitempty"`
	MinSize         *int     `json:"min_size,omitempty"`
	MaxSize         *int     `json:"max_size,omitempty"`
	OverlapRatio    *float64 `json:"overlap_ratio,omitempty"`
	Language        *string  `json:"language,omitempty"`
	PreserveHeaders *bool    `json:"preserve_headers,omitempty"`
}

// apply merges request overrides onto the base config.
func (cr chunkRequest) apply(base chunker.Config) chunker.Config {
	if cr.TargetSize != nil {
		base.TargetSize = *cr.TargetSize
	}
	if cr.MinSize != nil {
		base.MinSize = *cr.MinSize
	}
	if cr.MaxSize != nil {
		base.MaxSize = *cr.MaxSize
	}
	if cr.OverlapRatio != nil {
		base.OverlapRatio = *cr.OverlapRatio
	}
	if cr.Language != nil {
		base.Language = *cr.Language
	}
	if cr.PreserveHeaders != nil {
		base.PreserveHeaders = *cr.PreserveHeaders
	}
	return base
}

// handleChunk chunks raw text in-request, without parsing or storage.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	cfg := req.apply(s.cfg.Chunking)
	engine, err := chunker.NewEngine(cfg)
	if err != nil {
		if errors.Is(err, chunker.ErrInvalidConfig) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	chunks, err := engine.CreateChunks(req.Text)
	if err != nil {
		jsonError(w, "chunking failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if chunks == nil {
		chunks = []chunker.Chunk{}
	}

	valid := 0
	for _, c := range chunks {
		if c.Valid {
			valid++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"chunks":       chunks,
		"total_chunks": len(chunks),
		"valid_chunks": valid,
		"config":       cfg,
	})
}
