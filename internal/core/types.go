package core

import (
	"fmt"
	"strings"
	"time"
)

// DuplicatePolicy decides what happens when an imported row's phone
// matches an existing lead of the same tenant.
type DuplicatePolicy string

const (
	PolicySkip   DuplicatePolicy = "skip"   // leave the existing lead untouched
	PolicyReject DuplicatePolicy = "reject" // record a failure
	PolicyUpdate DuplicatePolicy = "update" // merge non-empty values over the existing lead
)

// ParsePolicy parses a policy tag. An empty tag means skip.
func ParsePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicySkip, nil
	case PolicySkip, PolicyReject, PolicyUpdate:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// ImportRow is the normalized view of one CSV data line.
type ImportRow struct {
	// Line is 1-based with the header as line 1.
	Line int

	// Values maps canonical lead field keys to trimmed cell values.
	Values map[string]string

	// Raw is the row as it appeared in the file, keyed by normalized header.
	Raw map[string]string
}

// Get returns the trimmed value for a canonical key.
func (r ImportRow) Get(key string) string {
	return r.Values[key]
}

// ImportRequest is the input of an import call.
type ImportRequest struct {
	TenantID          string
	CSV               []byte
	Policy            DuplicatePolicy
	DefaultAssigneeID string // optional; applied to created leads only
	FileName          string // optional; used for logging
}

// Outcome classifies what happened to a single row or id.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ItemError is one recorded per-item failure. Import failures carry Row and
// Input; batch failures carry ID.
type ItemError struct {
	Row   int               `json:"row,omitempty"`
	ID    string            `json:"id,omitempty"`
	Input map[string]string `json:"input,omitempty"`
	Error string            `json:"error"`
}

// RowOutcome records the fate of one data line.
type RowOutcome struct {
	Line    int     `json:"line"`
	Outcome Outcome `json:"outcome"`
	LeadID  string  `json:"leadId,omitempty"`
}

// ImportResult is the per-call accounting of an import.
// Success + Failed + Skipped == Total.
type ImportResult struct {
	ImportID string          `json:"importId"`
	Policy   DuplicatePolicy `json:"policy"`
	Total    int             `json:"total"`
	Success  int             `json:"success"`
	Failed   int             `json:"failed"`
	Skipped  int             `json:"skipped"`
	Created  int             `json:"created"`
	Updated  int             `json:"updated"`
	Errors   []ItemError     `json:"errors"`
	Imported []Lead          `json:"imported"`
	Rows     []RowOutcome    `json:"rows"`

	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
}

func newImportResult(importID string, policy DuplicatePolicy) *ImportResult {
	return &ImportResult{
		ImportID: importID,
		Policy:   policy,
		Errors:   []ItemError{},
		Imported: []Lead{},
		Rows:     []RowOutcome{},
	}
}

func (r *ImportResult) created(line int, lead *Lead) {
	r.Total++
	r.Success++
	r.Created++
	r.Imported = append(r.Imported, *lead)
	r.Rows = append(r.Rows, RowOutcome{Line: line, Outcome: OutcomeCreated, LeadID: lead.ID})
}

func (r *ImportResult) updated(line int, lead *Lead) {
	r.Total++
	r.Success++
	r.Updated++
	r.Imported = append(r.Imported, *lead)
	r.Rows = append(r.Rows, RowOutcome{Line: line, Outcome: OutcomeUpdated, LeadID: lead.ID})
}

func (r *ImportResult) skipped(line int, existingID string) {
	r.Total++
	r.Skipped++
	r.Rows = append(r.Rows, RowOutcome{Line: line, Outcome: OutcomeSkipped, LeadID: existingID})
}

func (r *ImportResult) failed(row ImportRow, reason string) {
	r.Total++
	r.Failed++
	r.Errors = append(r.Errors, ItemError{Row: row.Line, Input: row.Raw, Error: reason})
	r.Rows = append(r.Rows, RowOutcome{Line: row.Line, Outcome: OutcomeFailed})
}

// Batch operation names used in results and metrics.
const (
	OperationDelete = "delete"
	OperationAssign = "assign"
)

// BatchOperationResult is the per-call accounting of a bulk mutation.
// Success + Failed == Total.
type BatchOperationResult struct {
	Operation string      `json:"operation"`
	Total     int         `json:"total"`
	Success   int         `json:"success"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors"`
}

func newBatchResult(op string) *BatchOperationResult {
	return &BatchOperationResult{Operation: op, Errors: []ItemError{}}
}

func (r *BatchOperationResult) succeeded() {
	r.Total++
	r.Success++
}

func (r *BatchOperationResult) failed(id, reason string) {
	r.Total++
	r.Failed++
	r.Errors = append(r.Errors, ItemError{ID: id, Error: reason})
}
