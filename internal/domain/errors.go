package domain

import "errors"

// Domain errors represent the failure classes of the reporting pipeline.
// They can be checked with errors.Is.
var (
	// ErrMissingURL is returned when no api.url is configured.
	// The reporter treats it as a remote failure and falls back to the log file.
	ErrMissingURL = errors.New("missing api.url in config")

	// ErrTransport marks network-level failures of the remote call.
	ErrTransport = errors.New("transport failure")

	// ErrRemoteRejected marks a reachable endpoint that answered with a
	// non-2xx status or an application-level error body.
	ErrRemoteRejected = errors.New("remote rejected report")

	// ErrCorruptDocument is returned when an existing JSON log file cannot be parsed.
	// The file is left untouched.
	ErrCorruptDocument = errors.New("corrupt log document")

	// ErrNoOutcome is returned when a pending result channel is closed
	// without delivering an outcome.
	ErrNoOutcome = errors.New("pending result closed without outcome")
)
