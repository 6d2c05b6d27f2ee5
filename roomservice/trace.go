package roomservice

import (
	"context"
	"log"
	"time"

	"github.com/imdario/mergo"
)

// unique type to prevent assignment from outside this package.
type traceContextKey struct{}

// Trace is a structure of optional hook functions invoked at points in
// a stream's lifecycle and each listen/transmit iteration. Any nil hook
// is filled in from NoOpLoggingHooks by ContextTrace, so callers may
// populate only the hooks they care about.
type Trace struct {
	// StreamStarted is called when a listen loop begins for a stream.
	StreamStarted func(stream StreamID)

	// StreamStopped is called when a listen loop exits, with err set
	// if it exited due to a transport or framing failure.
	StreamStopped func(stream StreamID, err error)

	// MessageReceived is called after on_receive has processed an
	// inbound message.
	MessageReceived func(stream StreamID, verb string, channel string, d time.Duration)

	// MessageSent is called after on_send has processed an outbound
	// message.
	MessageSent func(stream StreamID, verb string, channel string, d time.Duration)

	// RateLimited is called whenever the listen loop's soft ingress
	// limiter decides to sleep.
	RateLimited func(stream StreamID, sleep time.Duration)

	// Error is called after any error condition detected by the
	// service loop.
	Error func(context string, stream StreamID, err error)
}

// ContextTrace returns the Trace associated with ctx, with every unset
// hook filled in from NoOpLoggingHooks, so callers never need a nil
// check before invoking a hook. It merges into a private copy rather
// than the caller's own *Trace, since the same context value is shared
// by every listen loop plus the transmit loop and must stay safe to
// read from concurrently.
func ContextTrace(ctx context.Context) *Trace {
	trace, _ := ctx.Value(traceContextKey{}).(*Trace)
	if trace == nil {
		return NoOpLoggingHooks
	}
	merged := *trace
	_ = mergo.Merge(&merged, NoOpLoggingHooks)
	return &merged
}

// WithTrace returns a context derived from ctx carrying trace, for a
// service started with that context to pick up via ContextTrace.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// DefaultLoggingHooks logs errors via the standard logger and leaves
// every other hook a no-op.
var DefaultLoggingHooks = &Trace{
	Error: func(context string, stream StreamID, err error) {
		log.Printf("room-Error context:%s stream:%v err:%v\n", context, stream, err)
	},
}

// NoOpLoggingHooks does nothing for any hook; it is the zero-cost
// default merged in by ContextTrace.
var NoOpLoggingHooks = &Trace{
	StreamStarted:   func(stream StreamID) {},
	StreamStopped:   func(stream StreamID, err error) {},
	MessageReceived: func(stream StreamID, verb, channel string, d time.Duration) {},
	MessageSent:     func(stream StreamID, verb, channel string, d time.Duration) {},
	RateLimited:     func(stream StreamID, sleep time.Duration) {},
	Error:           func(context string, stream StreamID, err error) {},
}
