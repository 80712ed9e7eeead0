// Package repository stores computed reports and remembers the latest one.
package repository

import (
	"context"
	"time"

	"github.com/okian/accredit/internal/domain/model"
)

// Status is the lifecycle state of a stored report.
type Status string

// Report lifecycle states.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Report pairs a payload with its computed result.
type Report struct {
	ID           string         `json:"id"`
	SubmissionID string         `json:"submission_id,omitempty"`
	Status       Status         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Payload      *model.Payload `json:"-"`
	Result       *model.Result  `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Store provides read/write access to report history.
type Store interface {
	// Save inserts or replaces a report by id.
	Save(ctx context.Context, r Report) error

	// Get returns a report by id.
	// Returns ErrNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (Report, error)

	// Latest returns the most recently finished report.
	Latest(ctx context.Context) (Report, error)

	// Count returns the number of reports currently held.
	Count(ctx context.Context) int
}
