// Package agent contains the agent registry the controller instantiates
// tracing agents from, plus the built-in telemetry agent. The package focuses
// on three concerns:
//
//  1. Identity and priority (Kind, Priority)
//  2. Variant selection (Variant, Registry): which agents are supported on a
//     platform and how they are constructed
//  3. Session metadata and clock-sync issuance (TelemetryAgent)
//
// Priority is the single source of truth for start order. KindTelemetry is
// first so that the metadata agent, when supported and started, always sits
// at index 0 of the controller's active agent list. Nothing checks this at
// runtime; the ordering here is what guarantees it.
//
// Browser, atrace, CPU and display agents live with their capture backends
// and are plugged in by registering a Variant for their Kind.
package agent
