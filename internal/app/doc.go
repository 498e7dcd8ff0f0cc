// Package app holds the reporting pipeline: the Reporter that forwards
// errors and falls back to the local log, and the guard helpers that run
// work and hand its failures to a Reporter.
//
// It depends only on internal/domain and the interfaces in internal/ports.
package app
