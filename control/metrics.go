// File: control/metrics.go
// License: Apache-2.0
//
// Reactor telemetry counters.

package control

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// Counters cover the reactor hot path. They are registered in the default
// metrics set and exported through WritePrometheus.
var (
	// SocketsRegistered counts successful RegisterSocket calls.
	SocketsRegistered = metrics.NewCounter("sockmux_sockets_registered_total")

	// SocketsRemoved counts applied deregistrations.
	SocketsRemoved = metrics.NewCounter("sockmux_sockets_removed_total")

	// EventsDispatched counts socket callbacks invoked by Poll.
	EventsDispatched = metrics.NewCounter("sockmux_events_dispatched_total")

	// ConnectionsAccepted counts factory-accepted inbound connections
	// across all listen sockets.
	ConnectionsAccepted = metrics.NewCounter("sockmux_connections_accepted_total")

	// PollWakeups counts explicit cross-thread wakeups of a blocked poll.
	PollWakeups = metrics.NewCounter("sockmux_poll_wakeups_total")

	// BackendErrors counts poll-set operations the OS rejected. Rejected
	// registrations are withdrawn and surfaced through the socket's error
	// path; this counter makes them visible in aggregate.
	BackendErrors = metrics.NewCounter("sockmux_backend_errors_total")
)

// WritePrometheus dumps all reactor metrics in Prometheus text format.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
