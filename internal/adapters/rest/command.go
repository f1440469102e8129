package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castaway-labs/castaway/internal/core/domain"
)

const (
	errCodeNoConfidentMatch = "NO_CONFIDENT_MATCH"
	errCodeNothingPlaying   = "NOTHING_PLAYING"
	errCodeNotFound         = "NOT_FOUND"
)

type commandRequest struct {
	Text string `json:"text"`
}

// HandleCommand handles POST /v1/command: parse, resolve and act.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.svc.HandleCommand(r.Context(), req.Text)
	if err != nil {
		var matchErr domain.NoConfidentMatchError
		switch {
		case errors.As(err, &matchErr):
			writeErrorWithCode(w, http.StatusUnprocessableEntity, matchErr.Error(), errCodeNoConfidentMatch)
		case errors.Is(err, domain.ErrNothingPlaying):
			writeErrorWithCode(w, http.StatusConflict, "nothing is playing", errCodeNothingPlaying)
		case errors.Is(err, domain.ErrNotFound):
			writeErrorWithCode(w, http.StatusNotFound, "not found", errCodeNotFound)
		default:
			h.log.Error().Err(err).Str("text", req.Text).Msg("command failed")
			writeError(w, http.StatusInternalServerError, "command failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleParse handles POST /v1/parse: tier-1 parsing only, no execution.
// Useful for clients that run their own playback and just want the intent.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	intent := h.svc.Parse(req.Text)
	writeJSON(w, http.StatusOK, encodeIntent(intent))
}
