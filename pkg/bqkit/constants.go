package bqkit

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration, table id or frame
	ExitConnectionError = 11 // Failed to create the warehouse client
	ExitAuthError       = 12 // Credentials rejected by the warehouse
	ExitQueryFailed     = 13 // Query job failed
	ExitLoadFailed      = 14 // Load job failed
	ExitConflict        = 15 // Destination not empty or already exists
)

const (
	// DefaultTimeout is the CLI invocation deadline. Zero means none: a
	// command waits until its jobs reach a terminal state or it is
	// interrupted.
	DefaultTimeout time.Duration = 0

	// DefaultLocation is used when neither flags, environment nor config
	// name a processing location.
	DefaultLocation = "US"

	// QueryJobPrefix and LoadJobPrefix prefix generated job ids so jobs
	// started by this tool are recognisable in the job history.
	QueryJobPrefix = "bqkit-query-"
	LoadJobPrefix  = "bqkit-load-"
)
