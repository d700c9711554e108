// Package session holds the state of one running tracing session: the
// config it was started with, the per-operation timeout forwarded to every
// agent, and the accumulating trace data builder.
//
// A State exists only while the controller is Running and is exclusively
// owned by it.
package session
