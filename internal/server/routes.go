package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/greencode/internal/analyzer"
	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/energy"
	"github.com/ziadkadry99/greencode/internal/history"
)

// maxSnippetBytes bounds POST /api/snippet bodies.
const maxSnippetBytes = 1 << 20

type snippetRequest struct {
	Code     string  `json:"code"`
	Language string  `json:"language"`
	Grid     string  `json:"grid"`
	Hours    float64 `json:"hours"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	root, err := s.resolve(q.Get("path"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := optionsFromQuery(q.Get("grid"), q.Get("hours"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.Stamp = true

	report, err := s.analyzer.AnalyzeProject(r.Context(), root, opts)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if q.Get("save") == "true" && s.store != nil {
		if _, err := s.store.Record(r.Context(), report); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnippetBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Language == "" {
		writeError(w, http.StatusBadRequest, "language is required")
		return
	}

	report, err := s.analyzer.AnalyzeSnippet(req.Code, req.Language, analyzer.Options{
		Grid:             config.GridType(req.Grid),
		DevelopmentHours: req.Hours,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := history.Filter{Limit: 20}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("path"); v != "" {
		root, err := s.resolve(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.ProjectPath = root
	}

	runs, err := s.store.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHistoryRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// resolve maps a requested path onto the configured root. Relative paths
// are taken from the root; the result must not leave it.
func (s *Server) resolve(requested string) (string, error) {
	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return "", err
	}
	if requested == "" {
		return root, nil
	}

	target := requested
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("path is outside the served root")
	}
	return target, nil
}

func optionsFromQuery(grid, hours string) (analyzer.Options, error) {
	opts := analyzer.Options{Grid: config.GridType(grid)}
	if hours != "" {
		h, err := strconv.ParseFloat(hours, 64)
		if err != nil || h < 0 {
			return opts, errors.New("hours must be a non-negative number")
		}
		opts.DevelopmentHours = h
	}
	return opts, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrProjectNotFound), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, energy.ErrUnknownGrid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
