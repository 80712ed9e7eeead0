// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/accredit/internal/adapters/payload"
	"github.com/okian/accredit/internal/adapters/repository"
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReportDependencies
	JobDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reportsHandler *ReportsHandler
	jobsHandler    *JobsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, parser *payload.Parser) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		reportsHandler: NewReportsHandler(deps, parser),
		jobsHandler:    NewJobsHandler(deps, parser),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	for _, rt := range s.routes() {
		mux.HandleFunc(rt.pattern, instrument(rt))
	}
}

func (s *Server) routes() []route {
	return []route{
		{"GET /healthz", "healthz", groupOps, s.healthHandler.HandleHealth},
		{"GET /stats", "stats", groupOps, s.statsHandler.HandleStats},
		{"POST /reports", "reports", groupReports, s.reportsHandler.HandlePostReport},
		{"GET /reports/latest", "reports_latest", groupReports, s.reportsHandler.HandleGetLatest},
		{"GET /reports/{id}", "report", groupReports, s.reportsHandler.HandleGetReport},
		{"GET /reports/{id}/students/{student_id}", "report_student", groupReports, s.reportsHandler.HandleGetStudent},
		{"POST /jobs", "jobs", groupJobs, s.jobsHandler.HandlePostJob},
	}
}

// Report is the stored report shape returned by the API.
type Report = repository.Report

// Submission is the acknowledgement returned for async jobs.
type Submission = types.Submission

// StudentResult is one roster row of a report.
type StudentResult = model.StudentResult

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	if ec, ok := w.(errorCoder); ok {
		ec.setErrorCode(code)
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKindError writes err with the status its kind maps to.
func writeKindError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}
