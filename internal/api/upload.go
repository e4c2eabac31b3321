package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// UploadHandler writes raw request bodies into the resources tree so
// the editor can replace individual audio files by hand.
type UploadHandler struct {
	resourcesDir string
	log          zerolog.Logger
}

func NewUploadHandler(resourcesDir string, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		resourcesDir: resourcesDir,
		log:          log.With().Str("handler", "upload").Logger(),
	}
}

// Routes registers the upload endpoint.
func (h *UploadHandler) Routes(r chi.Router) {
	r.Post("/upload/*", h.Upload)
}

// Upload handles POST /api/upload/{path}. The path is relative to the
// resources root and must stay inside it.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" {
		WriteError(w, http.StatusBadRequest, "missing upload path")
		return
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		WriteError(w, http.StatusBadRequest, "invalid upload path")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	target := filepath.Join(h.resourcesDir, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		WriteError(w, http.StatusInternalServerError, "create directory: "+err.Error())
		return
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		WriteError(w, http.StatusInternalServerError, "write file: "+err.Error())
		return
	}

	h.log.Info().Str("path", clean).Int("bytes", len(body)).Msg("file uploaded")
	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"path":   filepath.ToSlash(clean),
	})
}
