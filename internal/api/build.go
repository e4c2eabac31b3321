package api

import (
	"context"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// BuildHandler shells out to the configured demo-bundle build command.
type BuildHandler struct {
	cmd     string
	timeout time.Duration
	log     zerolog.Logger
}

func NewBuildHandler(cmd string, timeout time.Duration, log zerolog.Logger) *BuildHandler {
	return &BuildHandler{
		cmd:     cmd,
		timeout: timeout,
		log:     log.With().Str("handler", "build").Logger(),
	}
}

// Routes registers the build endpoint.
func (h *BuildHandler) Routes(r chi.Router) {
	r.Post("/build", h.Build)
}

// Build handles POST /api/build.
func (h *BuildHandler) Build(w http.ResponseWriter, r *http.Request) {
	if h.cmd == "" {
		WriteError(w, http.StatusNotFound, "no build command configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	parts := strings.Fields(h.cmd)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		h.log.Error().Err(err).Str("output", string(out)).Msg("build failed")
		WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": "build failed: " + err.Error(),
			"output":  string(out),
		})
		return
	}

	h.log.Info().Msg("build completed")
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "build completed",
		"output":  string(out),
	})
}
