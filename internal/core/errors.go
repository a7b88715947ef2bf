package core

import (
	"errors"
	"fmt"
	"strings"
)

// Call-level errors. Each aborts the whole operation; per-row and per-id
// failures are never returned as errors, they are recorded in the result.
var (
	ErrMissingTenant   = errors.New("tenant id is required")
	ErrEmptyInput      = errors.New("empty file: no header row")
	ErrFileTooLarge    = errors.New("file too large")
	ErrMalformedCSV    = errors.New("invalid csv")
	ErrTooManyRows     = errors.New("too many rows")
	ErrInvalidPolicy   = errors.New("invalid duplicate policy")
	ErrInvalidAssignee = errors.New("assignee is not an active member")
	ErrInvalidFilter   = errors.New("invalid export filter")
	ErrTooManyIDs      = errors.New("too many ids")
	ErrTenantBusy      = errors.New("tenant is busy with another bulk operation")
	ErrImportCancelled = errors.New("import cancelled")
)

// ErrLeadNotFound is returned by LeadStore writes when the lead is gone,
// for example deleted between lookup and mutation.
var ErrLeadNotFound = errors.New("lead not found")

// Per-item failure reasons for bulk mutations.
const (
	reasonNotFound     = "Lead not found"
	reasonAccessDenied = "Access denied"
)

// MissingFieldError is the per-row failure for rows lacking a required value.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldError is the per-row failure for a value that cannot be
// stored in its field.
type InvalidFieldError struct {
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Value)
}

func duplicatePhoneReason(phone string) string {
	return "Duplicate phone number: " + phone
}
