package room

import "github.com/pkg/errors"

func newError(format string, args ...interface{}) error {
	return errors.Errorf("room: "+format, args...)
}

// Kind distinguishes the cause of a FrameError.
type Kind int

const (
	// TooLarge indicates a field exceeded its configured cap.
	TooLarge Kind = iota
	// Broken indicates a field was truncated before its terminator or
	// its lexical class was violated.
	Broken
)

// FrameError reports a framing rule violation detected while reading or
// writing a Room message. Field names follow spec.md: "verb", "channel",
// "count" or "content", plus "separator" for a failed write of the blank
// byte between two fields.
type FrameError struct {
	Field string
	Kind  Kind
}

func (e *FrameError) Error() string {
	switch e.Kind {
	case TooLarge:
		return "room: " + e.Field + " too large"
	default:
		return "room: " + e.Field + " broken"
	}
}

func tooLarge(field string) error { return &FrameError{Field: field, Kind: TooLarge} }
func broken(field string) error   { return &FrameError{Field: field, Kind: Broken} }

// IsFrameError reports whether err is a *FrameError and returns it; the
// caller inspects its Kind.
func IsFrameError(err error) (*FrameError, bool) {
	fe, ok := err.(*FrameError)
	return fe, ok
}

var (
	// ErrDisposed is returned by any operation attempted on a disposed
	// codec or service.
	ErrDisposed = newError("use of disposed instance")
	// ErrNotRunning is returned by any operation that requires a
	// started service.
	ErrNotRunning = newError("service is not running")
)
