// Package types contains common types shared by the service and its API
package types

// Submission acknowledges an asynchronous report request.
type Submission struct {
	ReportID     string `json:"report_id"`
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
}

// WorkerStats is a point-in-time view of worker pool activity.
type WorkerStats struct {
	Workers   int   `json:"workers"`
	Active    int64 `json:"active"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Stats is a point-in-time view of the report service.
type Stats struct {
	Started            bool        `json:"started"`
	WorkerCount        int         `json:"worker_count"`
	QueueSize          int         `json:"queue_size"`
	QueueLength        int         `json:"queue_length"`
	Reports            int         `json:"reports"`
	Submissions        int64       `json:"submissions"`
	Workers            WorkerStats `json:"workers"`
	DedupeTTL          string      `json:"dedupe_ttl"`
	ReportTTL          string      `json:"report_ttl"`
	ThresholdMet       float64     `json:"threshold_met"`
	ThresholdPartially float64     `json:"threshold_partially"`
	LatestReport       string      `json:"latest_report,omitempty"`
}
