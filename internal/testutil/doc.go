// Package testutil contains fake agents, a shared call journal and variant
// helpers used across tests to drive the controller without real capture
// backends. The fakes record every call into a Journal so tests can assert
// the exact cross-agent call order. They are not intended for production
// usage.
package testutil
