package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/steelbid/internal/parser"
	"github.com/dgallion1/steelbid/internal/pipeline"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("drawing")
	if err != nil {
		jsonError(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if len(data) == 0 {
		jsonError(w, "uploaded file is empty", http.StatusBadRequest)
		return
	}

	jobName := strings.TrimSpace(r.FormValue("job_name"))
	job := pipeline.NewJob(uuid.NewString(), jobName, filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/extract/%s/status", job.ID),
		"events_url": fmt.Sprintf("/api/extract/%s/events", job.ID),
	})
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleExtractStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleExtractMembers(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	switch final := job.Final().(type) {
	case *pipeline.DoneEvent:
		writeJSON(w, http.StatusOK, final)
	case *pipeline.ErrorEvent:
		writeJSON(w, http.StatusUnprocessableEntity, final)
	default:
		snap := job.Snapshot()
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "extraction still running",
			"status": snap.Status,
			"phase":  snap.Phase,
		})
	}
}

// handleExtractEvents streams job progress as server-sent events. Each
// message is one JSON object; the stream ends with the job's final event.
func (s *Server) handleExtractEvents(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}

	rc := http.NewResponseController(w)
	// The server write timeout would cut long extractions short.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	events, cancel := job.Subscribe()
	defer cancel()

	send := func(v any) bool {
		data, err := json.Marshal(v)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if snap := job.Snapshot(); !snap.Status.Terminal() {
		if !send(pipeline.Event{State: snap.Status, Status: statusMessage(snap)}) {
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				if final := job.Final(); final != nil {
					send(final)
				}
				return
			}
			if !send(ev) {
				return
			}
		}
	}
}

func statusMessage(snap pipeline.JobSnapshot) string {
	if snap.Status == pipeline.StatusQueued {
		return "Waiting for a worker..."
	}
	return snap.Phase
}
