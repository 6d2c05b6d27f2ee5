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

// writeField writes p in full, retrying on short writes. A write that
// returns zero bytes with a nil error is itself a framing error: the
// transport is stuck rather than failed outright.
func (c *Codec) writeField(name fieldName, p []byte) error {
	for len(p) > 0 {
		n, err := c.w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return brokenErr(name)
		}
		p = p[n:]
	}
	return nil
}

func (c *Codec) writeBlank() error {
	c.wbuf[0] = ' '
	return c.writeField(fieldSeparator, c.wbuf[:1])
}

// writeContent copies content's bytes to the underlying writer in
// chunks no larger than the codec's write staging buffer, rewinding
// content first so a caller may pass a buffer left positioned anywhere
// by a prior read.
func (c *Codec) writeContent(content roomcontent.Buffer) error {
	remaining := content.Len()
	if remaining == 0 {
		return nil
	}
	if err := content.Rewind(); err != nil {
		return err
	}
	for remaining > 0 {
		want := int64(len(c.wbuf))
		if remaining < want {
			want = remaining
		}
		n, err := content.Read(c.wbuf[:want])
		if err != nil && err != io.EOF {
			return err
		}
		if n == 0 {
			return brokenErr(fieldContent)
		}
		if err := c.writeField(fieldContent, c.wbuf[:n]); err != nil {
			return err
		}
		remaining -= int64(n)
	}
	return nil
}

// WriteMessage validates verb, channel and the content buffer's length
// against the codec's configured caps before writing a single byte to
// the wire; a rejected message leaves the underlying stream untouched.
// The Count field is always derived from content.Len(), never accepted
// from a caller, so a mismatched caller-supplied length can never reach
// the wire.
func (c *Codec) WriteMessage(verb room.Verb, channel room.Channel, content roomcontent.Buffer) error {
	if c.disposed {
		return room.ErrDisposed
	}
	start := time.Now()

	if err := c.writeMessage(verb, channel, content); err != nil {
		c.trace.Error("write", err)
		return err
	}
	var n int64
	if content != nil {
		n = content.Len()
	}
	c.trace.MessageWritten(verb.String(), channel.String(), n, time.Since(start))
	return nil
}

func (c *Codec) writeMessage(verb room.Verb, channel room.Channel, content roomcontent.Buffer) error {
	if content == nil {
		content = noContent{}
	}

	if _, err := room.ParseVerb(verb.Bytes(), c.opts.MaxVerbLength); err != nil {
		return err
	}
	if _, err := room.ParseChannel(channel.Bytes(), c.opts.MaxChannelLength); err != nil {
		return err
	}

	n := content.Len()
	if n < 0 || uint64(n) > uint64(c.opts.MaxContentLength) {
		return tooLargeErr(fieldContent)
	}
	count := room.CountFromUint64(uint64(n))
	if len(count.Bytes()) > c.opts.MaxCountLength {
		return tooLargeErr(fieldCount)
	}

	if err := c.writeField(fieldVerb, verb.Bytes()); err != nil {
		return err
	}
	if err := c.writeBlank(); err != nil {
		return err
	}
	if err := c.writeField(fieldChannel, channel.Bytes()); err != nil {
		return err
	}
	if err := c.writeBlank(); err != nil {
		return err
	}
	if err := c.writeField(fieldCount, count.Bytes()); err != nil {
		return err
	}
	if err := c.writeBlank(); err != nil {
		return err
	}
	return c.writeContent(content)
}

// noContent is a zero-length stand-in for a nil Buffer passed to
// WriteMessage, so callers writing a contentless message need not
// allocate one via roomcontent.New themselves.
type noContent struct{}

func (noContent) Read([]byte) (int, error)  { return 0, io.EOF }
func (noContent) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
func (noContent) Seek(int64, int) (int64, error) {
	return 0, nil
}
func (noContent) Len() int64     { return 0 }
func (noContent) Rewind() error  { return nil }
func (noContent) Close() error   { return nil }
func (noContent) Retain()        {}
func (noContent) Release() error { return nil }

var _ roomcontent.Buffer = noContent{}
