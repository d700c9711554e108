// Package logging provides a minimal logging interface and adapters for tracemesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the controller and agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - SessionLogger with session / component context and agent-call helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	ctrl := controller.New(platform, func(o *controller.Options) { o.Logger = logger })
package logging
