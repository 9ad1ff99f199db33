// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this ID already exists
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Database locked: The catalog database is busy
//	        Patterns: "database is locked", "sqlite_busy"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Required field is empty
//	         Patterns: "required field"
//
//	VAL002 - Column limit: Table already has the maximum number of columns
//	         Patterns: "columns per table"
//
//	VAL003 - Unknown field: Request contains an unsupported field
//	         Patterns: "unknown field"
//
//	VAL004 - Malformed request: Request body is not valid JSON
//	         Patterns: "invalid request body"
//
//	VAL005 - Already exists: The value is already in use
//	         Patterns: "already exists"
//
//	VAL006 - Invalid identifier: The id in the URL is not a number
//	         Patterns: "invalid id"
//
//	VAL000 - Invalid input: Any other rejected input
//	         Patterns: "validation failed"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE003 - Empty or invalid CSV: The file has no data rows
//	          Patterns: "csv file is empty or invalid"
//
//	FILE004 - Unsupported image: The image type is not accepted
//	          Patterns: "unsupported image type", "image exceeds"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	         Patterns: "too many imports"
//
//	IMP002 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	IMP003 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Catalog and Insight Errors (CAT001-CAT099)
//
//	CAT001 - Table not found
//	CAT002 - Column not found
//	CAT003 - User not found
//	CAT004 - Insight not found
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. If ERR000, check application logs for the original technical error

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Lookups (CAT001-CAT004)
	// =========================================================================
	{"table not found", UserMessage{"Table not found", "Refresh the list; it may have been deleted", "CAT001"}},
	{"column not found", UserMessage{"Column not found", "Refresh the table; it may have been deleted", "CAT002"}},
	{"user not found", UserMessage{"User not found", "Refresh the user list", "CAT003"}},
	{"insight not found", UserMessage{"Insight not found", "Refresh the list; it may have been deleted", "CAT004"}},

	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{"duplicate key", UserMessage{"A record with this ID already exists", "Review the data for duplicates", "DB001"}},
	{"unique constraint", UserMessage{"This value must be unique but already exists", "Choose a different value", "DB002"}},
	{"violates unique", UserMessage{"A duplicate value was found", "Review your data for duplicate key values", "DB002"}},
	{"foreign key constraint", UserMessage{"Referenced record does not exist", "Ensure the parent table exists", "DB003"}},
	{"violates foreign key", UserMessage{"Referenced record does not exist", "Ensure the parent table exists", "DB003"}},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// =========================================================================
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"database is locked", UserMessage{"The catalog database is busy", "Please try again", "DB006"}},
	{"sqlite_busy", UserMessage{"The catalog database is busy", "Please try again", "DB006"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a file to upload", "FILE002"}},
	{"csv file is empty or invalid", UserMessage{"The CSV file has no data rows", "Include a header line and at least one data line", "FILE003"}},
	{"unsupported image type", UserMessage{"The image type is not accepted", "Upload a JPEG, PNG, GIF or WebP image", "FILE004"}},
	{"image exceeds", UserMessage{"The image is too large", "Resize the image and try again", "FILE004"}},

	// =========================================================================
	// Validation Errors (VAL001-VAL006, VAL000)
	// =========================================================================
	{"required field", UserMessage{"Required field is empty", "Fill in all required fields", "VAL001"}},
	{"columns per table", UserMessage{"This table already has the maximum number of columns", "Split the definition across tables", "VAL002"}},
	{"unknown field", UserMessage{"The request contains an unsupported field", "Remove fields the form does not define", "VAL003"}},
	{"invalid request body", UserMessage{"The request body is malformed", "Send a valid JSON object", "VAL004"}},
	{"already exists", UserMessage{"This value is already in use", "Choose a different value", "VAL005"}},
	{"invalid id", UserMessage{"The identifier is not valid", "Use the numeric id from the list", "VAL006"}},
	{"validation failed", UserMessage{"Some input was rejected", "Check the highlighted fields and try again", "VAL000"}},

	// =========================================================================
	// Import Errors (IMP001-IMP003)
	// =========================================================================
	{"too many imports", UserMessage{"System is busy processing other imports", "Please wait a moment and try again", "IMP001"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "IMP002"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "IMP003"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "IMP003"}},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
