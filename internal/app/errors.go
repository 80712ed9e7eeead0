package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrBackpressure      = errors.New("job queue full")
	ErrReportNotReady    = errors.New("report not ready")
	ErrStudentNotFound   = errors.New("student not found")
)
