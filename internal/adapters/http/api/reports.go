package api

import (
	"context"
	"net/http"

	"github.com/okian/accredit/internal/adapters/payload"
	"github.com/okian/accredit/internal/domain/model"
)

// ReportDependencies defines the synchronous report operations.
type ReportDependencies interface {
	Compute(ctx context.Context, p *model.Payload) (Report, error)
	Report(ctx context.Context, id string) (Report, error)
	Latest(ctx context.Context) (Report, error)
	Student(ctx context.Context, reportID, studentID string) (StudentResult, error)
}

// ReportsHandler handles report requests.
type ReportsHandler struct {
	deps   ReportDependencies
	parser *payload.Parser
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies, parser *payload.Parser) *ReportsHandler {
	return &ReportsHandler{deps: deps, parser: parser}
}

// HandlePostReport handles POST /reports requests. The body is a payload;
// the report is computed before responding.
func (h *ReportsHandler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_report"
	p, err := h.parser.Decode(r.Body)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	rep, err := h.deps.Compute(r.Context(), p)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// HandleGetLatest handles GET /reports/latest requests.
func (h *ReportsHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_latest_report"
	rep, err := h.deps.Latest(r.Context())
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleGetReport handles GET /reports/{id} requests.
func (h *ReportsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	id := r.PathValue("id")
	if id == "" {
		writeKindError(w, NewKind(op, ErrBadRequest))
		return
	}
	rep, err := h.deps.Report(r.Context(), id)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleGetStudent handles GET /reports/{id}/students/{student_id} requests.
func (h *ReportsHandler) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_student"
	id, studentID := r.PathValue("id"), r.PathValue("student_id")
	if id == "" || studentID == "" {
		writeKindError(w, NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Student(r.Context(), id, studentID)
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
