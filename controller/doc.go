// Package controller implements the tracing controller: a two-state
// (Idle, Running) machine that starts the supported tracing agents in
// priority order, flushes them, stops them in reverse order, collects their
// data in start order and aggregates every per-agent failure of a phase into
// a single TracingError.
//
// The controller is synchronous and not reentrant. Callers serialize Start,
// Flush, Stop and IssueClockSyncMarker themselves.
package controller
