// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// askRequest mirrors the request schema for POST /ask.
type askRequest struct {
	Question string `json:"question"`
}

func (a askRequest) validate() error {
	if strings.TrimSpace(a.Question) == "" {
		return errors.New("missing question")
	}
	return nil
}

// AskDependencies defines the interface for question dispatch.
type AskDependencies interface {
	Ask(ctx context.Context, question string) (Answer, error)
}

// AskHandler handles question requests.
type AskHandler struct {
	deps AskDependencies
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(deps AskDependencies) *AskHandler {
	return &AskHandler{deps: deps}
}

// HandlePostAsk handles POST /ask requests. Validator rejections are not
// errors: the caller gets a 200 with rejected set and the explanation in
// the answer text.
func (h *AskHandler) HandlePostAsk(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_ask"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ans, err := h.deps.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ans)
}
