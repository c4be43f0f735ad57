package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/okian/wask/internal/domain/model"
	"github.com/okian/wask/internal/domain/submission"
	"github.com/okian/wask/pkg/logger"
)

const maxSubmitBody = 1 << 20

// SubmitDependencies defines the interface for storing results.
type SubmitDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (model.Score, error)
}

// SubmitHandler handles result submissions.
type SubmitHandler struct {
	deps       SubmitDependencies
	normalizer *submission.Normalizer
	logger     logger.Logger
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps SubmitDependencies, n *submission.Normalizer, l logger.Logger) *SubmitHandler {
	if n == nil {
		n = submission.New()
	}
	return &SubmitHandler{deps: deps, normalizer: n, logger: l}
}

type submitResponse struct {
	Status   string           `json:"status"`
	Received model.Submission `json:"received"`
}

// HandleSubmit handles POST /submit_result. In the default lenient mode a
// request is refused only when its body cannot be read or storage fails.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_result"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmitBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if h.normalizer.Strict() || !errors.As(err, &tooLarge) {
			if h.logger != nil {
				h.logger.Warn(r.Context(), "submit body unreadable", logger.Error(err))
			}
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		// An oversized body is not a JSON object; lenient mode stores defaults.
		body = nil
	}

	sub, err := h.normalizer.Parse(body)
	if err != nil {
		if errors.Is(err, submission.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrValidation, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	score, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Status: "ok",
		Received: model.Submission{
			Name:    score.Name,
			Email:   score.Email,
			TimeS:   score.TimeS,
			Outcome: score.Outcome,
		},
	})
}
