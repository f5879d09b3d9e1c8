package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/steelbid/internal/estimate"
	"github.com/dgallion1/steelbid/internal/export"
	"github.com/dgallion1/steelbid/internal/store"
)

const maxMembers = 10000

type estimateRequest struct {
	JobName  string             `json:"job_name"`
	Members  []estimate.Member  `json:"members"`
	Settings *estimate.Settings `json:"settings"`
}

// settingsFor returns override when given, otherwise the stored settings.
func (s *Server) settingsFor(ctx context.Context, override *estimate.Settings) (estimate.Settings, error) {
	if override != nil {
		return override.WithDefaults(), nil
	}
	st, err := s.store.GetSettings(ctx)
	if err != nil {
		return estimate.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st.WithDefaults(), nil
}

func normalizeMembers(members []estimate.Member) []estimate.Member {
	out := make([]estimate.Member, len(members))
	for i, m := range members {
		m.Normalize()
		out[i] = m
	}
	return out
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Members) > maxMembers {
		jsonError(w, "too many members", http.StatusRequestEntityTooLarge)
		return
	}
	settings, err := s.settingsFor(r.Context(), req.Settings)
	if err != nil {
		s.log.Error("estimate settings", "error", err)
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, estimate.Compute(normalizeMembers(req.Members), settings))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r)
	if format == "" {
		jsonError(w, "format must be xlsx or pdf", http.StatusBadRequest)
		return
	}
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Members) > maxMembers {
		jsonError(w, "too many members", http.StatusRequestEntityTooLarge)
		return
	}
	s.writeBid(w, r, format, req)
}

func (s *Server) handleExportSaved(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r)
	if format == "" {
		jsonError(w, "format must be xlsx or pdf", http.StatusBadRequest)
		return
	}
	saved, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	s.writeBid(w, r, format, estimateRequest{
		JobName:  saved.JobName,
		Members:  saved.Members,
		Settings: saved.Settings,
	})
}

func exportFormat(r *http.Request) string {
	switch f := strings.ToLower(r.URL.Query().Get("format")); f {
	case "", "xlsx":
		return "xlsx"
	case "pdf":
		return f
	default:
		return ""
	}
}

func (s *Server) writeBid(w http.ResponseWriter, r *http.Request, format string, req estimateRequest) {
	settings, err := s.settingsFor(r.Context(), req.Settings)
	if err != nil {
		s.log.Error("export settings", "error", err)
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	bid := export.Bid{
		JobName:  req.JobName,
		Settings: settings,
		Estimate: estimate.Compute(normalizeMembers(req.Members), settings),
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "pdf":
		contentType = "application/pdf"
		err = export.PDF(&buf, bid)
	default:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.XLSX(&buf, bid)
	}
	if err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		jsonError(w, "failed to render bid", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(req.JobName, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsFor(r.Context(), nil)
	if err != nil {
		s.log.Error("get settings", "error", err)
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings estimate.Settings
	if err := decodeJSON(w, r, &settings); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	settings = settings.WithDefaults()
	if err := s.store.PutSettings(r.Context(), settings); err != nil {
		s.log.Error("put settings", "error", err)
		jsonError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListEstimates(r.Context())
	if err != nil {
		s.log.Error("list estimates", "error", err)
		jsonError(w, "failed to list estimates", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"estimates": list})
}

// decodeSaved reads and checks a saved estimate body.
func decodeSaved(w http.ResponseWriter, r *http.Request) (*store.SavedEstimate, bool) {
	var e store.SavedEstimate
	if err := decodeJSON(w, r, &e); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	e.JobName = strings.TrimSpace(e.JobName)
	if e.JobName == "" {
		jsonError(w, "job_name is required", http.StatusBadRequest)
		return nil, false
	}
	if len(e.Members) > maxMembers {
		jsonError(w, "too many members", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	e.Members = normalizeMembers(e.Members)
	e.Filename = sanitizeOptionalFilename(e.Filename)
	return &e, true
}

func sanitizeOptionalFilename(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return sanitizeFilename(name)
}

func (s *Server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeSaved(w, r)
	if !ok {
		return
	}
	e.ID = ""
	if err := s.store.SaveEstimate(r.Context(), e); err != nil {
		s.log.Error("create estimate", "error", err)
		jsonError(w, "failed to save estimate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) loadEstimate(w http.ResponseWriter, r *http.Request) (*store.SavedEstimate, bool) {
	id := chi.URLParam(r, "id")
	e, err := s.store.GetEstimate(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "estimate not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Error("get estimate", "id", id, "error", err)
		jsonError(w, "failed to load estimate", http.StatusInternalServerError)
		return nil, false
	}
	return e, true
}

func (s *Server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	e, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateEstimate(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	e, ok := decodeSaved(w, r)
	if !ok {
		return
	}
	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt
	if err := s.store.SaveEstimate(r.Context(), e); err != nil {
		s.log.Error("update estimate", "id", e.ID, "error", err)
		jsonError(w, "failed to save estimate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEstimate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.DeleteEstimate(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "estimate not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("delete estimate", "id", id, "error", err)
		jsonError(w, "failed to delete estimate", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
