// File: internal/concurrency/doc.go
// License: Apache-2.0
//
// Concurrency primitives underpinning the socket reactor: a condition
// variable with timed waits, a two-phase reusable barrier for coordinating
// reactor worker cohorts, and the atomic reference count governing socket
// descriptor lifetimes.
//
// All implementations are portable; the Go runtime supplies the
// platform-specific blocking machinery.
package concurrency
