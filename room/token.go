package room

import (
	"strconv"
)

// Verb is a validated, immutable token naming a message kind. Its bytes
// always satisfy VerifyVerb for some cap; callers never observe a Verb
// whose bytes were not validated at construction time.
type Verb struct{ raw []byte }

// VerifyVerb reports whether b is a well-formed Verb: non-empty and
// entirely letter-class bytes, no longer than max.
func VerifyVerb(b []byte, max int) bool {
	return len(b) > 0 && scanWord(b, max) == len(b)
}

// ParseVerb validates and copies b into a new Verb.
func ParseVerb(b []byte, max int) (Verb, error) {
	if len(b) > max {
		return Verb{}, tooLarge("verb")
	}
	if !VerifyVerb(b, max) {
		return Verb{}, broken("verb")
	}
	return Verb{raw: cloneBytes(b)}, nil
}

// TryParseVerb is the non-throwing counterpart of ParseVerb.
func TryParseVerb(b []byte, max int) (Verb, bool) {
	v, err := ParseVerb(b, max)
	return v, err == nil
}

// NewVerb constructs a Verb from b without validation. Callers must
// only pass bytes that have already been validated (e.g. a literal
// constant, or bytes produced by the codec's own scanner).
func NewVerb(b []byte) Verb { return Verb{raw: cloneBytes(b)} }

// Bytes returns the Verb's stored bytes. The caller must not mutate the
// returned slice.
func (v Verb) Bytes() []byte { return v.raw }

// String renders the Verb's exact stored bytes as UTF-8 text.
func (v Verb) String() string { return string(v.raw) }

// IsZero reports whether v is the zero Verb.
func (v Verb) IsZero() bool { return len(v.raw) == 0 }

// Channel is a signed hexadecimal identifier: one mandatory sign byte
// followed by one or more hex digits.
type Channel struct{ raw []byte }

// VerifyChannel reports whether b is a well-formed Channel: a sign byte
// followed by a non-empty run of hex digits covering the remainder, no
// longer than max in total.
func VerifyChannel(b []byte, max int) bool {
	if len(b) < 2 || len(b) > max || !isSign(b[0]) {
		return false
	}
	return 1+scanHex(b[1:], len(b)-1) == len(b)
}

// ParseChannel validates and copies b into a new Channel.
func ParseChannel(b []byte, max int) (Channel, error) {
	if len(b) > max {
		return Channel{}, tooLarge("channel")
	}
	if !VerifyChannel(b, max) {
		return Channel{}, broken("channel")
	}
	return Channel{raw: cloneBytes(b)}, nil
}

// TryParseChannel is the non-throwing counterpart of ParseChannel.
func TryParseChannel(b []byte, max int) (Channel, bool) {
	c, err := ParseChannel(b, max)
	return c, err == nil
}

// NewChannel constructs a Channel from b without validation.
func NewChannel(b []byte) Channel { return Channel{raw: cloneBytes(b)} }

// ChannelFromInt64 formats n as a Channel: "+{hex}" for n >= 0, or
// "-{hex}" for n < 0, using lowercase hex digits for the magnitude.
func ChannelFromInt64(n int64) Channel {
	sign := byte('+')
	mag := uint64(n)
	if n < 0 {
		sign = '-'
		mag = uint64(-n)
	}
	raw := append([]byte{sign}, []byte(strconv.FormatUint(mag, 16))...)
	return Channel{raw: raw}
}

// Int64 converts the Channel to a signed 64-bit integer. The conversion
// is lossless provided the magnitude fits in 63 bits.
func (c Channel) Int64() (int64, error) {
	if len(c.raw) < 2 {
		return 0, broken("channel")
	}
	mag, err := strconv.ParseUint(string(c.raw[1:]), 16, 64)
	if err != nil {
		return 0, broken("channel")
	}
	if c.raw[0] == '-' {
		return -int64(mag), nil
	}
	return int64(mag), nil
}

// Int32 converts the Channel to a signed 32-bit integer, failing if the
// value overflows int32.
func (c Channel) Int32() (int32, error) {
	n, err := c.Int64()
	if err != nil {
		return 0, err
	}
	if n > int64(1<<31-1) || n < -int64(1<<31) {
		return 0, broken("channel")
	}
	return int32(n), nil
}

// Bytes returns the Channel's stored bytes. The caller must not mutate
// the returned slice.
func (c Channel) Bytes() []byte { return c.raw }

// String renders the Channel's exact stored bytes as UTF-8 text.
func (c Channel) String() string { return string(c.raw) }

// IsZero reports whether c is the zero Channel.
func (c Channel) IsZero() bool { return len(c.raw) == 0 }

// Count is an unsigned decimal integer denoting the byte length of the
// content that follows it on the wire.
type Count struct{ raw []byte }

// VerifyCount reports whether b is a well-formed Count: non-empty and
// entirely digit-class bytes, no longer than max.
func VerifyCount(b []byte, max int) bool {
	return len(b) > 0 && scanDigit(b, max) == len(b)
}

// ParseCount validates and copies b into a new Count.
func ParseCount(b []byte, max int) (Count, error) {
	if len(b) > max {
		return Count{}, tooLarge("count")
	}
	if !VerifyCount(b, max) {
		return Count{}, broken("count")
	}
	return Count{raw: cloneBytes(b)}, nil
}

// TryParseCount is the non-throwing counterpart of ParseCount.
func TryParseCount(b []byte, max int) (Count, bool) {
	c, err := ParseCount(b, max)
	return c, err == nil
}

// NewCount constructs a Count from b without validation.
func NewCount(b []byte) Count { return Count{raw: cloneBytes(b)} }

// CountFromUint64 formats n in standard decimal.
func CountFromUint64(n uint64) Count {
	return Count{raw: []byte(strconv.FormatUint(n, 10))}
}

// Uint64 converts the Count to an unsigned 64-bit integer.
func (c Count) Uint64() (uint64, error) {
	n, err := strconv.ParseUint(string(c.raw), 10, 64)
	if err != nil {
		return 0, broken("count")
	}
	return n, nil
}

// Bytes returns the Count's stored bytes. The caller must not mutate
// the returned slice.
func (c Count) Bytes() []byte { return c.raw }

// String renders the Count's exact stored bytes as UTF-8 text.
func (c Count) String() string { return string(c.raw) }

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
