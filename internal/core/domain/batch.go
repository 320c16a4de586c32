package domain

import "time"

// OutcomeKind tags the variant of a BatchItemOutcome.
type OutcomeKind string

const (
	OutcomeCreated          OutcomeKind = "created"
	OutcomeValidationFailed OutcomeKind = "validation_failed"
	OutcomeGatewayFailed    OutcomeKind = "gateway_failed"
	OutcomeNotAttempted     OutcomeKind = "not_attempted"
)

// BatchItemOutcome records what happened to one entry of a batch.
// Which fields are set depends on Kind:
//   - created: ID, Submitted, SubmitError (when auto-submit failed), Warnings
//   - validation_failed: Errors, Warnings
//   - gateway_failed: Message
//   - not_attempted: nothing beyond Index
type BatchItemOutcome struct {
	Index       int         `json:"index"`
	Kind        OutcomeKind `json:"kind"`
	ID          string      `json:"id,omitempty"`
	Submitted   bool        `json:"submitted"`
	SubmitError string      `json:"submitError,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// IsFailure reports whether the outcome counts towards BatchResult.ErrorCount.
func (o BatchItemOutcome) IsFailure() bool {
	return o.Kind == OutcomeValidationFailed || o.Kind == OutcomeGatewayFailed
}

// BatchResult aggregates a batch run. Outcomes has one element per input entry, in input order.
//
// Atomic is always false: entries created before a later failure stay created on the ledger,
// and re-running the same batch may create them again.
type BatchResult struct {
	SuccessCount int                `json:"successCount"`
	ErrorCount   int                `json:"errorCount"`
	Atomic       bool               `json:"atomic"`
	Outcomes     []BatchItemOutcome `json:"outcomes"`
}

// IsPartialFailure reports a mixed result: some entries were created and some failed.
func (r *BatchResult) IsPartialFailure() bool {
	return r.SuccessCount > 0 && r.ErrorCount > 0
}

// BatchRun is the audit record of one batch invocation.
type BatchRun struct {
	RunID        string             `json:"runId"`
	StartedAt    time.Time          `json:"startedAt"`
	FinishedAt   time.Time          `json:"finishedAt"`
	EntryCount   int                `json:"entryCount"`
	SuccessCount int                `json:"successCount"`
	ErrorCount   int                `json:"errorCount"`
	AutoSubmit   bool               `json:"autoSubmit"`
	StopOnError  bool               `json:"stopOnError"`
	Outcomes     []BatchItemOutcome `json:"outcomes,omitempty"`
}
