package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/cirgest/internal/bureau"
)

type extractRequest struct {
	Documents []struct {
		Text         string `json:"text"`
		BorrowerType string `json:"borrower_type"`
		SourceID     string `json:"source_id"`
	} `json:"documents"`
}

// handleExtract runs extraction synchronously on already-decoded report text.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	if len(req.Documents) > s.cfg.MaxFilesPerJob {
		jsonError(w, fmt.Sprintf("too many documents (max %d)", s.cfg.MaxFilesPerJob), http.StatusBadRequest)
		return
	}

	docs := make([]bureau.Document, len(req.Documents))
	for i, d := range req.Documents {
		bt := bureau.Applicant
		if d.BorrowerType != "" {
			var err error
			if bt, err = bureau.ParseBorrowerType(d.BorrowerType); err != nil {
				jsonError(w, fmt.Sprintf("document %d: %s", i+1, err), http.StatusBadRequest)
				return
			}
		}
		id := d.SourceID
		if id == "" {
			id = fmt.Sprintf("document-%d", i+1)
		}
		docs[i] = bureau.Document{Text: d.Text, BorrowerType: bt, SourceID: id}
	}

	writeBatch(w, s.orchestrator.Extract(r.Context(), docs))
}
