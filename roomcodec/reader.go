// Copyright 2018 Andrew Fort
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package roomcodec

import (
	"io"
	"time"

	"github.com/roomproto/room/room"
	"github.com/roomproto/room/roomcontent"
)

// fieldName identifies a frame field for error reporting and for the
// positional class rules applied while scanning it.
type fieldName int

const (
	fieldVerb fieldName = iota
	fieldChannel
	fieldCount
	fieldContent
	fieldSeparator
)

func (f fieldName) String() string {
	switch f {
	case fieldVerb:
		return "verb"
	case fieldChannel:
		return "channel"
	case fieldCount:
		return "count"
	case fieldContent:
		return "content"
	default:
		return "separator"
	}
}

func tooLargeErr(f fieldName) error { return &room.FrameError{Field: f.String(), Kind: room.TooLarge} }
func brokenErr(f fieldName) error   { return &room.FrameError{Field: f.String(), Kind: room.Broken} }

func isBlank(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func isLetter(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func isSign(b byte) bool { return b == '+' || b == '-' }

// scanClass returns the length of the leading run of view that belongs
// to name's lexical class, where pos is the number of bytes of this
// field already accumulated in the scratch buffer before view (needed
// because Channel's sign byte is only legal at field position 0).
func scanClass(name fieldName, pos int, view []byte) int {
	n := 0
	for n < len(view) {
		b := view[n]
		var ok bool
		switch name {
		case fieldVerb:
			ok = isLetter(b)
		case fieldChannel:
			if pos+n == 0 {
				ok = isSign(b)
			} else {
				ok = isHex(b)
			}
		case fieldCount:
			ok = isDigit(b)
		}
		if !ok {
			break
		}
		n++
	}
	return n
}

// readField implements the field-parsing template: it accumulates
// field-class bytes across as many chunks as required, stopping at the
// first blank terminator (consumed) or the first byte outside the
// field's class (left unconsumed, per the wire format's definition of a
// complete-but-unterminated field). allowCleanEOF permits a genuine
// end-of-stream with no bytes yet read for this field to be reported as
// io.EOF rather than a framing error; it is only ever true for the verb
// field, where the stream is at a message boundary.
func (c *Codec) readField(name fieldName, maxLen int, allowCleanEOF bool) ([]byte, error) {
	var scratch []byte
	for {
		if err := c.fill(); err != nil {
			return nil, err
		}
		view := c.chunk()
		if len(view) == 0 {
			if allowCleanEOF && len(scratch) == 0 {
				return nil, io.EOF
			}
			return nil, brokenErr(name)
		}

		n := scanClass(name, len(scratch), view)
		if len(scratch)+n > maxLen {
			c.advance(n)
			return nil, tooLargeErr(name)
		}

		terminated := false
		consumed := n
		if n < len(view) {
			terminated = true
			if isBlank(view[n]) {
				consumed = n + 1
			}
		}

		scratch = append(scratch, view[:n]...)
		c.advance(consumed)

		if terminated {
			return scratch, nil
		}
		// Chunk exhausted mid-field with no terminator yet seen; loop
		// for the next chunk and keep accumulating.
	}
}

// readContent reads exactly n bytes of message content into a buffer
// allocated by roomcontent.New, rewinding it to offset 0 before
// returning it to the caller.
func (c *Codec) readContent(n uint64) (roomcontent.Buffer, error) {
	if n == 0 {
		return roomcontent.New(0, c.opts.MaxFastBuffering, c.opts.TempContentFolder)
	}
	if n > uint64(c.opts.MaxContentLength) {
		return nil, tooLargeErr(fieldContent)
	}

	buf, err := roomcontent.New(int64(n), c.opts.MaxFastBuffering, c.opts.TempContentFolder)
	if err != nil {
		return nil, err
	}

	remaining := n
	for remaining > 0 {
		if err := c.fill(); err != nil {
			_ = buf.Release()
			return nil, err
		}
		view := c.chunk()
		if len(view) == 0 {
			_ = buf.Release()
			return nil, brokenErr(fieldContent)
		}
		take := uint64(len(view))
		if take > remaining {
			take = remaining
		}
		if _, err := buf.Write(view[:take]); err != nil {
			_ = buf.Release()
			return nil, err
		}
		c.advance(int(take))
		remaining -= take
	}

	if err := buf.Rewind(); err != nil {
		_ = buf.Release()
		return nil, err
	}
	return buf, nil
}

// ReadMessage reads and validates one complete Room message from the
// codec's underlying reader. A clean end of stream at a message
// boundary is reported as io.EOF; any other failure is either a
// *room.FrameError or an error propagated unchanged from the transport.
func (c *Codec) ReadMessage() (*room.Message, error) {
	if c.disposed {
		return nil, room.ErrDisposed
	}
	start := time.Now()

	msg, err := c.readMessage()
	if err != nil {
		if err != io.EOF {
			c.trace.Error("read", err)
		}
		return nil, err
	}
	c.trace.MessageRead(msg.Verb.String(), msg.Channel.String(), msg.Content.Len(), time.Since(start))
	return msg, nil
}

func (c *Codec) readMessage() (*room.Message, error) {
	verbTok, err := c.readField(fieldVerb, c.opts.MaxVerbLength, true)
	if err != nil {
		return nil, err
	}
	verb, err := room.ParseVerb(verbTok, c.opts.MaxVerbLength)
	if err != nil {
		return nil, err
	}

	channelTok, err := c.readField(fieldChannel, c.opts.MaxChannelLength, false)
	if err != nil {
		return nil, err
	}
	channel, err := room.ParseChannel(channelTok, c.opts.MaxChannelLength)
	if err != nil {
		return nil, err
	}

	countTok, err := c.readField(fieldCount, c.opts.MaxCountLength, false)
	if err != nil {
		return nil, err
	}
	count, err := room.ParseCount(countTok, c.opts.MaxCountLength)
	if err != nil {
		return nil, err
	}

	n, err := count.Uint64()
	if err != nil {
		return nil, err
	}

	content, err := c.readContent(n)
	if err != nil {
		return nil, err
	}

	return &room.Message{Verb: verb, Channel: channel, Content: content}, nil
}
