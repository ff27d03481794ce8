package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks the lifecycle of one reconciliation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the metadata of a single full recompute against the current
// snapshot of both extracts. Runs are independent; there is no persisted
// classification history a new run diffs against.
type Run struct {
	ID            uuid.UUID `json:"id"`
	Status        RunStatus `json:"status"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitzero"`
	CAASTotal     int       `json:"caas_total"`
	BSSTotal      int       `json:"bss_total"`
	CAASUnmatched int       `json:"caas_unmatched"`
	BSSUnmatched  int       `json:"bss_unmatched"`
}
