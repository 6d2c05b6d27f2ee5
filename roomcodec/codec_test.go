package roomcodec

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomproto/room/room"
	"github.com/roomproto/room/roomcontent"
)

func TestReadMessageRoundTrip(t *testing.T) {
	buf := bytes.NewBufferString("PING +1A 5 hello")
	c := New(buf, io.Discard)

	msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "PING", msg.Verb.String())
	assert.Equal(t, "+1A", msg.Channel.String())

	got, err := io.ReadAll(msg.Content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestReadMessageZeroLengthContent(t *testing.T) {
	buf := bytes.NewBufferString("NOOP +0 0 ")
	c := New(buf, io.Discard)

	msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.EqualValues(t, 0, msg.Content.Len())
}

func TestReadMessageAcceptsAnyBlankSeparator(t *testing.T) {
	buf := bytes.NewBufferString("PING\t+1\n3\tabc")
	c := New(buf, io.Discard)

	msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "PING", msg.Verb.String())
}

func TestReadMessageCleanEOFAtBoundary(t *testing.T) {
	c := New(bytes.NewReader(nil), io.Discard)

	_, err := c.ReadMessage()
	assert.Equal(t, io.EOF, err)
}

func TestReadMessageBrokenVerbMidFrame(t *testing.T) {
	c := New(bytes.NewBufferString("PI"), io.Discard)

	_, err := c.ReadMessage()
	fe, ok := room.IsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, "verb", fe.Field)
	assert.Equal(t, room.Broken, fe.Kind)
}

func TestReadMessageVerbTooLarge(t *testing.T) {
	c := New(bytes.NewBufferString("ABCDE +1 0 "), io.Discard, WithMaxVerbLength(3))

	_, err := c.ReadMessage()
	fe, ok := room.IsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, "verb", fe.Field)
	assert.Equal(t, room.TooLarge, fe.Kind)
}

func TestReadMessageBrokenChannelMissingSign(t *testing.T) {
	c := New(bytes.NewBufferString("PING 1A 0 "), io.Discard)

	_, err := c.ReadMessage()
	_, ok := room.IsFrameError(err)
	assert.True(t, ok)
}

func TestReadMessageContentTooLarge(t *testing.T) {
	c := New(bytes.NewBufferString("PING +1 99 abc"), io.Discard, WithMaxContentLength(10))

	_, err := c.ReadMessage()
	fe, ok := room.IsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, "content", fe.Field)
	assert.Equal(t, room.TooLarge, fe.Kind)
}

func TestReadMessageContentBrokenShortStream(t *testing.T) {
	c := New(bytes.NewBufferString("PING +1 10 abc"), io.Discard)

	_, err := c.ReadMessage()
	fe, ok := room.IsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, "content", fe.Field)
	assert.Equal(t, room.Broken, fe.Kind)
}

func TestReadMessageSpansMultipleRawReads(t *testing.T) {
	r := &chunkedReader{chunks: [][]byte{
		[]byte("PI"), []byte("NG +"), []byte("1A "), []byte("5 he"), []byte("llo"),
	}}
	c := New(r, io.Discard, WithReadBufferSize(4))

	msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "PING", msg.Verb.String())

	got, err := io.ReadAll(msg.Content)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestWriteMessageRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(bytes.NewReader(nil), buf)

	content, err := roomcontent.New(5, 1024, "")
	require.NoError(t, err)
	_, err = content.Write([]byte("hello"))
	require.NoError(t, err)

	verb := room.NewVerb([]byte("PING"))
	channel := room.ChannelFromInt64(42)

	require.NoError(t, c.WriteMessage(verb, channel, content))
	assert.Equal(t, "PING +2a 5 hello", buf.String())
}

func TestWriteMessageZeroContent(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(bytes.NewReader(nil), buf)

	verb := room.NewVerb([]byte("NOOP"))
	channel := room.ChannelFromInt64(0)

	require.NoError(t, c.WriteMessage(verb, channel, nil))
	assert.Equal(t, "NOOP +0 0 ", buf.String())
}

func TestWriteMessageRejectsOversizeVerbBeforeWriting(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(bytes.NewReader(nil), buf, WithMaxVerbLength(2))

	verb := room.NewVerb([]byte("PING"))
	channel := room.ChannelFromInt64(1)

	err := c.WriteMessage(verb, channel, nil)
	fe, ok := room.IsFrameError(err)
	require.True(t, ok)
	assert.Equal(t, "verb", fe.Field)
	assert.Zero(t, buf.Len(), "no bytes should reach the wire for a rejected message")
}

func TestWriteMessageRoundTripsThroughReadMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(bytes.NewReader(nil), buf)

	content, err := roomcontent.New(3, 1024, "")
	require.NoError(t, err)
	_, err = content.Write([]byte("abc"))
	require.NoError(t, err)

	require.NoError(t, w.WriteMessage(room.NewVerb([]byte("PUT")), room.ChannelFromInt64(-7), content))

	r := New(bytes.NewReader(buf.Bytes()), io.Discard)
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "PUT", msg.Verb.String())
	n, err := msg.Channel.Int64()
	require.NoError(t, err)
	assert.EqualValues(t, -7, n)
	got, err := io.ReadAll(msg.Content)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

// randomChunks splits raw into a sequence of non-empty chunks whose
// boundaries are chosen by rng, so the same message can be replayed
// through a Read-at-a-time transport split a different way on every
// call without hand-enumerating the splits.
func randomChunks(rng *rand.Rand, raw []byte) [][]byte {
	var chunks [][]byte
	for len(raw) > 0 {
		n := 1 + rng.Intn(len(raw))
		chunks = append(chunks, raw[:n])
		raw = raw[n:]
	}
	return chunks
}

func TestReadMessageChunkBoundaryIndependent(t *testing.T) {
	raw := []byte("PING +1A 5 hello")

	// A fixed set of seeds keeps the split sequence for each trial
	// reproducible across runs while still exercising many distinct
	// chunk boundaries, including single-byte splits (bufsz 1).
	seeds := []int64{1, 2, 3, 42, 1337}

	for _, seed := range seeds {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			chunks := randomChunks(rng, append([]byte(nil), raw...))

			r := &chunkedReader{chunks: chunks}
			c := New(r, io.Discard, WithReadBufferSize(1))

			msg, err := c.ReadMessage()
			require.NoError(t, err, "seed %d chunks %v", seed, chunks)
			assert.Equal(t, "PING", msg.Verb.String())
			assert.Equal(t, "+1A", msg.Channel.String())

			got, err := io.ReadAll(msg.Content)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(got))
		})
	}
}

// chunkedReader replays a fixed sequence of chunks, each delivered over
// one or more Read calls if the caller's buffer is smaller than the
// chunk, modelling a transport that delivers arbitrary partial frames.
type chunkedReader struct {
	chunks [][]byte
	idx    int
	rest   []byte // unread remainder of chunks[idx-1], if any
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		if r.idx >= len(r.chunks) {
			return 0, io.EOF
		}
		r.rest = r.chunks[r.idx]
		r.idx++
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}
