// Package control
//
// Configuration and runtime telemetry for the socket reactor.
//
// Provides:
//   - Reactor tuning knobs with defaults and environment overrides
//   - Prometheus-style counters for registrations, dispatches and accepts
package control
