// Package roomtransport supplies the byte-stream adapters the service
// layer drives a stream codec over: a raw TCP connection and a
// WebSocket connection, both satisfying the same narrow contract.
package roomtransport

import "io"

// Transport is the two-method contract a roomcodec.Codec's underlying
// reader/writer pair must honor, plus a liveness check the service
// loop polls between messages. Implementations are not required to be
// safe for concurrent Reads or for concurrent Writes, but must tolerate
// one Read and one Write running at the same time, matching the codec's
// own concurrency model.
//
// Close must additionally be safe to call concurrently with a Read
// already blocked in the underlying channel, and must cause that Read
// to return promptly: none of Transport's implementations honor
// context cancellation on their own, so the service loop's only way to
// unblock a stream parked in Read is to close it out from under it.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer

	// IsAlive reports whether the underlying channel is open and has
	// not been disposed. Once it returns false it must never return
	// true again.
	IsAlive() bool
}
