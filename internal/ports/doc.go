// Package ports defines the interfaces (ports) that connect the reporting
// pipeline to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Transport]: performs the remote report call
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [DocumentWriter]: durably merges a value into a file
//   - [ConfigProvider]: resolves the reporter configuration
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, net/http and zerolog.
package ports
