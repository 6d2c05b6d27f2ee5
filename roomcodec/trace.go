package roomcodec

import (
	"log"
	"time"

	"github.com/imdario/mergo"
)

// Trace is a structure of optional hook functions invoked around a
// Codec's reads and writes. Any nil hook is filled in from NoOpTrace by
// WithTrace, so a caller never needs a nil check before a hook fires;
// mirrors roomservice.Trace's shape, one layer down the stack.
type Trace struct {
	// MessageRead is called after ReadMessage successfully decodes one
	// message, with the time spent inside ReadMessage.
	MessageRead func(verb, channel string, contentLen int64, d time.Duration)

	// MessageWritten is called after WriteMessage successfully encodes
	// one message, with the time spent inside WriteMessage.
	MessageWritten func(verb, channel string, contentLen int64, d time.Duration)

	// Error is called whenever ReadMessage fails with an error other
	// than io.EOF, or WriteMessage fails, naming which of the two failed.
	// The room.ErrDisposed returned by a disposed Codec is not reported.
	Error func(op string, err error)
}

// mergeTrace returns a copy of t with every unset hook filled in from
// NoOpTrace, leaving t itself untouched — a Trace a caller built may be
// shared across more than one Codec, so WithTrace must not mutate it.
func mergeTrace(t *Trace) *Trace {
	if t == nil {
		return NoOpTrace
	}
	merged := *t
	_ = mergo.Merge(&merged, NoOpTrace)
	return &merged
}

// DefaultTrace logs errors via the standard logger and leaves the
// message hooks as no-ops.
var DefaultTrace = &Trace{
	Error: func(op string, err error) {
		log.Printf("roomcodec-Error op:%s err:%v\n", op, err)
	},
}

// NoOpTrace does nothing for any hook; it is the zero-cost default a
// Codec constructed without WithTrace uses.
var NoOpTrace = &Trace{
	MessageRead:    func(verb, channel string, contentLen int64, d time.Duration) {},
	MessageWritten: func(verb, channel string, contentLen int64, d time.Duration) {},
	Error:          func(op string, err error) {},
}
