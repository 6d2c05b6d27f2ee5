// Package roomcodec implements the Room wire protocol's stream codec: a
// streaming parser/serializer that reads and writes Room messages over
// any reliable byte-oriented io.Reader/io.Writer pair, with bounded
// read-side memory (a fixed staging buffer plus a growable per-field
// scratch slice), overflow-to-disk content buffering via roomcontent,
// and strict lexical validation of each frame field.
//
// Codec is not safe for concurrent use by more than one reader or more
// than one writer at a time; a single reader and a single writer may
// run concurrently against the same Codec, since they touch disjoint
// staging buffers, matching the concurrency model described for the
// wider Room service loop.
package roomcodec

import (
	"io"

	"github.com/roomproto/room/room"
)

// Codec reads and writes Room messages over an arbitrary reliable byte
// stream. It owns its read and write staging buffers from construction
// until Dispose.
type Codec struct {
	r io.Reader
	w io.Writer

	opts room.StreamOptions

	rbuf []byte // read staging buffer
	rpos int    // cursor into rbuf
	rlen int    // valid bytes in rbuf

	wbuf []byte // write staging buffer, reused to copy content in chunks

	trace *Trace

	disposed bool
}

// New constructs a Codec reading from r and writing to w, configured by
// the supplied options applied onto room.DefaultStreamOptions.
func New(r io.Reader, w io.Writer, options ...Option) *Codec {
	cfg := config{stream: room.DefaultStreamOptions, trace: NoOpTrace}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Codec{
		r:     r,
		w:     w,
		opts:  cfg.stream,
		trace: cfg.trace,
		rbuf:  make([]byte, cfg.stream.ReadBufferSize),
		wbuf:  make([]byte, cfg.stream.WriteBufferSize),
	}
}

// Dispose releases the Codec's staging buffers. Any subsequent
// ReadMessage or WriteMessage call returns room.ErrDisposed.
func (c *Codec) Dispose() {
	c.disposed = true
	c.rbuf = nil
	c.wbuf = nil
}

// fill refills the read staging buffer when its unread portion is
// exhausted. It returns a non-nil error only for a genuine transport
// failure; a clean end-of-stream is represented by an empty chunk with
// a nil error, leaving the EOF/broken distinction to the caller, which
// knows whether it is positioned at a message boundary.
func (c *Codec) fill() error {
	if c.rpos < c.rlen {
		return nil
	}
	n, err := c.r.Read(c.rbuf)
	c.rpos = 0
	c.rlen = n
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Codec) chunk() []byte {
	return c.rbuf[c.rpos:c.rlen]
}

func (c *Codec) advance(n int) {
	c.rpos += n
}
