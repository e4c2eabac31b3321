package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/snarg/caseedit/internal/store"
)

// DataHandler serves the editable case-data documents.
type DataHandler struct {
	store *store.Store
	log   zerolog.Logger
}

func NewDataHandler(st *store.Store, log zerolog.Logger) *DataHandler {
	return &DataHandler{store: st, log: log.With().Str("handler", "data").Logger()}
}

// Routes registers the data endpoints.
func (h *DataHandler) Routes(r chi.Router) {
	r.Get("/data/{lang}", h.GetData)
	r.Post("/data/{lang}", h.SaveData)
}

// GetData handles GET /api/data/{lang}.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	doc, err := h.store.Load(lang)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// SaveData handles POST /api/data/{lang}.
func (h *DataHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if err := h.store.Save(lang, json.RawMessage(body)); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Info().Str("lang", lang).Int("bytes", len(body)).Msg("data saved")
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "saved data_" + lang + ".json"})
}
