package model

import "time"

// Job is one asynchronous report computation waiting in the queue.
type Job struct {
	ReportID     string    // id the finished report is stored under
	SubmissionID string    // client key for idempotent submission
	Payload      *Payload  // input of the computation
	SubmittedAt  time.Time // when the job was accepted
}
