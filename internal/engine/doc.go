// Package engine drives the per-device control loops.
//
// Each configured device gets one Worker owning two loops: a StatusPoller
// that reads state on a timer, and a CommandDispatcher that coalesces
// change signals into serialized pushes. Transport choice is a pure
// decision (SelectTransport, FallbackTransport); pushes run under a
// bounded fixed-delay retry.
//
// Position math for coverings also lives here: the raw vendor position
// is the inverse of the host convention and every read or write path
// must flip it exactly once.
package engine
