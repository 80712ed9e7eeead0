package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/accredit/internal/adapters/payload"
	"github.com/okian/accredit/internal/domain/model"
)

// JobDependencies defines the asynchronous submission operation.
type JobDependencies interface {
	Submit(ctx context.Context, submissionID string, p *model.Payload) (Submission, error)
}

// jobRequest mirrors the OpenAPI schema for POST /jobs.
type jobRequest struct {
	SubmissionID string          `json:"submission_id"`
	Payload      json.RawMessage `json:"payload"`
}

func (j jobRequest) validate() error {
	switch {
	case strings.TrimSpace(j.SubmissionID) == "":
		return errors.New("missing submission_id")
	case len(j.Payload) == 0 || string(j.Payload) == "null":
		return errors.New("missing payload")
	}
	return nil
}

// JobsHandler handles asynchronous job submissions.
type JobsHandler struct {
	deps   JobDependencies
	parser *payload.Parser
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies, parser *payload.Parser) *JobsHandler {
	return &JobsHandler{deps: deps, parser: parser}
}

// HandlePostJob handles POST /jobs requests. New submissions are accepted
// with 202; a repeated submission id is acknowledged with 200.
func (h *JobsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	body := http.MaxBytesReader(w, r.Body, h.parser.MaxBytes())

	var req jobRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeKindError(w, WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := h.parser.Parse(req.Payload)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	sub, err := h.deps.Submit(r.Context(), req.SubmissionID, p)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	if sub.Duplicate {
		writeJSON(w, http.StatusOK, sub)
		return
	}
	writeJSON(w, http.StatusAccepted, sub)
}
