package devserver

import (
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"peaksite/internal/assets"
	"peaksite/internal/logging"
	"peaksite/internal/peaks"
)

const landingPage = "index.html"

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, landingPage)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel, ok := cleanRelative(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.serveFile(w, r, rel)
}

// serveFile writes the raw bytes of root/rel. Missing files and directories
// are 404s.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, rel string) {
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	data, err := os.ReadFile(full)
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("read failed",
			logging.String("path", rel),
			logging.Error(err),
		)
		http.NotFound(w, r)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

type waveformResponse struct {
	Name string `json:"name"`
	peaks.Summary
}

func (s *Server) handleWaveform(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	parsed, ok := assets.ParseDerivedName(name)
	if !ok || (parsed.Ext != "dat" && parsed.Ext != "json") || name != filepath.Base(name) {
		writeError(w, http.StatusNotFound, "unknown waveform")
		return
	}
	data, err := s.peaks.Get(r.Context(), filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "unknown waveform")
			return
		}
		logging.WithContext(r.Context(), s.logger).Warn("waveform decode failed",
			logging.String("name", name),
			logging.Error(err),
		)
		writeError(w, http.StatusUnprocessableEntity, "waveform could not be decoded")
		return
	}
	writeJSON(w, http.StatusOK, waveformResponse{Name: name, Summary: data.Summarize()})
}

// cleanRelative turns a request path into a slash-separated path relative to
// the output root. Paths with dot-dot segments are refused.
func cleanRelative(requestPath string) (string, bool) {
	trimmed := strings.TrimPrefix(requestPath, "/")
	if trimmed == "" {
		return "", false
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", false
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	return cleaned, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
