package bqkit

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Errors returned by the warehouse are never replaced: they are wrapped with
// %w so errors.As still reaches *googleapi.Error or *bigquery.Error.
//
//	info, err := loader.Load(ctx, frame, dest, cfg)
//	if errors.Is(err, bqkit.ErrTableNotEmpty) {
//	    // WRITE_EMPTY against a populated table
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidTableRef indicates a table id could not be parsed.
	ErrInvalidTableRef = errors.New("invalid table id")

	// ErrInvalidFrame indicates a tabular dataset failed validation.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrConnectionFailed indicates the warehouse client could not be created.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrQueryFailed indicates a query job failed.
	ErrQueryFailed = errors.New("query failed")

	// ErrLoadFailed indicates a load job failed.
	ErrLoadFailed = errors.New("load failed")

	// ErrTableNotEmpty indicates a WRITE_EMPTY load hit a populated table.
	ErrTableNotEmpty = errors.New("destination table is not empty")
)

// duplicateReason is the job error reason BigQuery reports when a
// WRITE_EMPTY load targets a table that already holds rows.
const duplicateReason = "duplicate"

// IsConflict reports whether err is the service telling us the destination
// already holds data (WRITE_EMPTY) or already exists.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTableNotEmpty) {
		return true
	}
	var jobErr *bigquery.Error
	if errors.As(err, &jobErr) && jobErr.Reason == duplicateReason {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return true
	}
	return false
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if IsConflict(err) {
		return ExitConflict
	}

	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrInvalidTableRef),
		errors.Is(err, ErrInvalidFrame):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ExitAuthError
		}
	}

	switch {
	case errors.Is(err, ErrQueryFailed):
		return ExitQueryFailed
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	}

	// Cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, pattern := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"arg(s), received",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
