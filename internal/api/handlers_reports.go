package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/cirgest/internal/bureau"
	"github.com/dgallion1/cirgest/internal/export"
	"github.com/dgallion1/cirgest/internal/parser"
	"github.com/dgallion1/cirgest/internal/pipeline"
)

func (s *Server) handleSubmitReports(w http.ResponseWriter, r *http.Request) {
	maxFiles := int64(s.cfg.MaxFilesPerJob)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*maxFiles+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(headers) > s.cfg.MaxFilesPerJob {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxFilesPerJob), http.StatusBadRequest)
		return
	}

	types, err := borrowerTypes(r.MultipartForm.Value["borrower_type"], len(headers))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	for i, fh := range headers {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("%s: unsupported file type: %s", filename, filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, filename+": failed to open file", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, filename+": failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s: file exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		files = append(files, pipeline.NewFile(filename, types[i], data))
	}

	job := pipeline.NewJob(files)
	if err := s.orchestrator.Submit(job); err != nil {
		s.log.Warn("submit failed", "job_id", job.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"files":    len(files),
		"poll_url": fmt.Sprintf("/api/reports/%s/status", job.ID),
	})
}

// borrowerTypes expands the borrower_type form values to one per file: none
// means Applicant for all, one value applies to all, otherwise one per file.
func borrowerTypes(values []string, files int) ([]bureau.BorrowerType, error) {
	out := make([]bureau.BorrowerType, files)
	switch len(values) {
	case 0:
		for i := range out {
			out[i] = bureau.Applicant
		}
	case 1:
		bt, err := bureau.ParseBorrowerType(values[0])
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = bt
		}
	case files:
		for i, v := range values {
			bt, err := bureau.ParseBorrowerType(v)
			if err != nil {
				return nil, fmt.Errorf("file %d: %w", i+1, err)
			}
			out[i] = bt
		}
	default:
		return nil, fmt.Errorf("got %d borrower_type values for %d files", len(values), files)
	}
	return out, nil
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// jobResult writes an error response and returns false unless the job has
// finished with a result.
func (s *Server) jobResult(w http.ResponseWriter, r *http.Request) (bureau.Batch, []byte, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return bureau.Batch{}, nil, false
	}
	snap := job.Snapshot()
	if !snap.Status.Done() {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return bureau.Batch{}, nil, false
	}
	batch, workbook, ok := job.Result()
	if !ok {
		msg := "job produced no result"
		if len(snap.Progress.Errors) > 0 {
			msg += ": " + strings.Join(snap.Progress.Errors, "; ")
		}
		jsonError(w, msg, http.StatusConflict)
		return bureau.Batch{}, nil, false
	}
	return batch, workbook, true
}

func (s *Server) handleReportResult(w http.ResponseWriter, r *http.Request) {
	batch, _, ok := s.jobResult(w, r)
	if !ok {
		return
	}
	writeBatch(w, batch)
}

func (s *Server) handleReportWorkbook(w http.ResponseWriter, r *http.Request) {
	_, workbook, ok := s.jobResult(w, r)
	if !ok {
		return
	}
	if workbook == nil {
		jsonError(w, "workbook unavailable", http.StatusConflict)
		return
	}
	attachment(w, s.cfg.WorkbookName, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Write(workbook)
}

func (s *Server) handleAccountsCSV(w http.ResponseWriter, r *http.Request) {
	s.writeCSV(w, r, "accounts.csv", export.WriteAccountsCSV)
}

func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	s.writeCSV(w, r, "summary.csv", export.WriteSummaryCSV)
}

func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, name string, write func(io.Writer, bureau.Batch) error) {
	batch, _, ok := s.jobResult(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := write(&buf, batch); err != nil {
		s.log.Error("csv export failed", "file", name, "error", err)
		jsonError(w, "csv export failed", http.StatusInternalServerError)
		return
	}
	attachment(w, name, "text/csv; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleReportPreview(w http.ResponseWriter, r *http.Request) {
	batch, _, ok := s.jobResult(w, r)
	if !ok {
		return
	}
	title := strings.TrimSuffix(s.cfg.WorkbookName, filepath.Ext(s.cfg.WorkbookName))
	page, err := export.RenderPreview(batch, title)
	if err != nil {
		s.log.Error("preview render failed", "error", err)
		jsonError(w, "preview failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func attachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeBatch(w http.ResponseWriter, batch bureau.Batch) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": batch.Documents,
		"summary":   batch.Summaries(),
		"accounts":  batch.AccountCount(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
