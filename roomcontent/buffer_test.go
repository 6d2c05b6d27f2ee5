package roomcontent

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZeroLengthReturnsSharedNullBuffer(t *testing.T) {
	b, err := New(0, 1024, "")
	require.NoError(t, err)
	assert.Same(t, sharedNullBuffer, b)
	assert.EqualValues(t, 0, b.Len())
	assert.NoError(t, b.Close())
}

func TestNewBelowThresholdIsInMemory(t *testing.T) {
	b, err := New(16, 1024, "")
	require.NoError(t, err)
	_, ok := b.(*memoryBuffer)
	assert.True(t, ok)
}

func TestNewAboveThresholdSpillsToFile(t *testing.T) {
	b, err := New(2048, 1024, t.TempDir())
	require.NoError(t, err)
	defer b.Close()
	_, ok := b.(*fileBuffer)
	assert.True(t, ok)
}

func TestMemoryBufferReadWriteRewind(t *testing.T) {
	b, err := New(5, 1024, "")
	require.NoError(t, err)

	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.EqualValues(t, 5, b.Len())

	require.NoError(t, b.Rewind())
	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestMemoryBufferRetainReleaseRefCounts(t *testing.T) {
	b, err := New(3, 1024, "")
	require.NoError(t, err)
	_, _ = b.Write([]byte("abc"))

	b.Retain()
	require.NoError(t, b.Release(), "first release must not tear the buffer down")

	mb := b.(*memoryBuffer)
	assert.NotNil(t, mb.buf, "buffer survives while still retained")

	require.NoError(t, b.Release())
	assert.Nil(t, mb.buf, "buffer is released once the ref count reaches zero")
}

func TestFileBufferDeletesOnClose(t *testing.T) {
	dir := t.TempDir()
	b, err := New(2048, 1024, dir)
	require.NoError(t, err)

	fb := b.(*fileBuffer)
	path := fb.path

	_, err = b.Write([]byte("spilled content"))
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "file must exist while the buffer is open")

	require.NoError(t, b.Close())
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "temp file must be removed on close")
}

func TestFileBufferCloseIsIdempotent(t *testing.T) {
	b, err := New(2048, 1024, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}

func TestFileBufferRetainDefersDeletion(t *testing.T) {
	b, err := New(2048, 1024, t.TempDir())
	require.NoError(t, err)
	fb := b.(*fileBuffer)

	b.Retain()
	require.NoError(t, b.Release())
	_, statErr := os.Stat(fb.path)
	assert.NoError(t, statErr, "file must survive while still retained")

	require.NoError(t, b.Release())
	_, statErr = os.Stat(fb.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNullBufferIsAlwaysSafeToRelease(t *testing.T) {
	b := sharedNullBuffer
	assert.NoError(t, b.Release())
	assert.NoError(t, b.Close())
	n, err := b.Read(make([]byte, 4))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}
