// Package domain contains the core entities and value objects for policeoffice.
//
// This package has no dependencies on infrastructure concerns (HTTP, file
// system, logging) and contains only the rules that decide what gets
// reported and how a persisted log document evolves.
//
// # Entities
//
//   - [ErrorProperties]: the structured description of one failure
//   - [Payload]: the JSON body sent to the reporting endpoint
//   - [LogEntry]: one persisted record of a failed report attempt
//   - [Document]: the JSON value stored in a log file, tagged by shape
//   - [Config]: read-only reporter configuration
package domain
