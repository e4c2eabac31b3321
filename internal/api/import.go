package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/session"
	"github.com/snarg/caseedit/internal/task"
)

// SessionImporter runs the synchronous phase of an import.
type SessionImporter interface {
	Import(ctx context.Context, url, username, password, caseID string) (*session.CaseRecord, bool, error)
}

// StatusSource is the read-only view of the task table.
type StatusSource interface {
	Status(caseID string) (task.Snapshot, bool)
}

// ImportHandler serves the session import and transcription status
// endpoints.
type ImportHandler struct {
	importer SessionImporter
	status   StatusSource
	log      zerolog.Logger
}

func NewImportHandler(importer SessionImporter, status StatusSource, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		status:   status,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// Routes registers the import endpoints.
func (h *ImportHandler) Routes(r chi.Router) {
	r.Post("/import-session", h.ImportSession)
	r.Get("/transcription-status", h.TranscriptionStatus)
}

type importRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	CaseID   string `json:"case_id"`
}

type importResponse struct {
	Status        string              `json:"status"`
	Case          *session.CaseRecord `json:"case"`
	HasPendingASR bool                `json:"has_pending_asr"`
}

// ImportSession handles POST /api/import-session. The response is sent
// as soon as the provisional case is assembled; transcription of
// pending user turns continues in the background.
func (h *ImportHandler) ImportSession(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		WriteError(w, http.StatusBadRequest, "url is required")
		return
	}

	rec, hasPending, err := h.importer.Import(r.Context(), req.URL, req.Username, req.Password, req.CaseID)
	if err != nil {
		if errors.Is(err, task.ErrTaskActive) {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		h.log.Error().Err(err).Str("case_id", req.CaseID).Msg("import failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, importResponse{
		Status:        "success",
		Case:          rec,
		HasPendingASR: hasPending,
	})
}

type statusResponse struct {
	Status string `json:"status"`
	task.Snapshot
}

type statusNotFound struct {
	Status string `json:"status"`
	CaseID string `json:"case_id"`
}

// TranscriptionStatus handles GET /api/transcription-status?case_id=ID.
func (h *ImportHandler) TranscriptionStatus(w http.ResponseWriter, r *http.Request) {
	caseID := r.URL.Query().Get("case_id")
	if caseID == "" {
		WriteError(w, http.StatusBadRequest, "case_id is required")
		return
	}

	snap, ok := h.status.Status(caseID)
	if !ok {
		WriteJSON(w, http.StatusNotFound, statusNotFound{Status: "not_found", CaseID: caseID})
		return
	}
	WriteJSON(w, http.StatusOK, statusResponse{Status: "ok", Snapshot: snap})
}
