package core

// error_messages.go maps technical errors to user-facing messages with
// support codes. Users quote the code; support looks up the logged error.
//
// Codes by category:
//
//	IMP001-IMP099  import input and policy problems
//	ASN001         assignee validation
//	BLK001-BLK099  bulk operation limits and contention
//	EXP001         export filters
//	DB001-DB099    database errors
//	UPL001-UPL099  request lifecycle (busy, cancelled, timeout)
//	RATE001        rate limiting
//	ERR000         unexpected error, check the logs

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is an error rendered for people.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// sentinelMessages are checked with errors.Is before any string matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrMissingTenant, UserMessage{
		Message: "No agency selected",
		Action:  "Send the X-Tenant-ID header with a valid agency id",
		Code:    "IMP001",
	}},
	{ErrEmptyInput, UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a CSV file with a header row",
		Code:    "IMP002",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum import size",
		Action:  "Split the file into smaller chunks",
		Code:    "IMP003",
	}},
	{ErrMalformedCSV, UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Check quoting and make sure no row has more values than the header",
		Code:    "IMP004",
	}},
	{ErrTooManyRows, UserMessage{
		Message: "File has too many rows for a single import",
		Action:  "Split the file into smaller chunks",
		Code:    "IMP005",
	}},
	{ErrInvalidPolicy, UserMessage{
		Message: "Unknown duplicate handling option",
		Action:  "Use skip, reject, or update",
		Code:    "IMP006",
	}},
	{ErrImportCancelled, UserMessage{
		Message: "Import stopped before all rows were processed",
		Action:  "Rows already imported were kept. Re-run with the update policy to finish",
		Code:    "IMP007",
	}},
	{ErrInvalidAssignee, UserMessage{
		Message: "The selected agent is not an active member of this agency",
		Action:  "Choose an active agent and try again",
		Code:    "ASN001",
	}},
	{ErrTooManyIDs, UserMessage{
		Message: "Too many leads selected",
		Action:  "Select fewer leads and repeat the operation",
		Code:    "BLK001",
	}},
	{ErrTenantBusy, UserMessage{
		Message: "Another import or bulk change is running for this agency",
		Action:  "Wait for it to finish and try again",
		Code:    "BLK002",
	}},
	{ErrInvalidFilter, UserMessage{
		Message: "Unknown export filter value",
		Action:  "Check the status, source, and priority filters",
		Code:    "EXP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy",
		Action:  "Too many imports in progress. Please wait a moment and try again",
		Code:    "UPL002",
	}},
}

// errorPattern maps an error substring (lower case) to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Refresh and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check that the assigned agent still exists",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-facing message. Known
// sentinels win over substring patterns; anything else maps to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// IsClientError reports whether err was caused by the request rather than
// the system. The route layer answers these with 4xx.
func IsClientError(err error) bool {
	for _, e := range []error{
		ErrMissingTenant, ErrEmptyInput, ErrFileTooLarge, ErrMalformedCSV,
		ErrTooManyRows, ErrInvalidPolicy, ErrInvalidAssignee, ErrTooManyIDs,
		ErrInvalidFilter,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
