package roomcontent

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
)

// monotonic is a process-wide counter embedded in each temp-file name
// ahead of the random suffix os.CreateTemp appends, so the files of one
// run carry increasing sequence numbers.
var monotonic uint64

// fileBuffer is a temp-file-backed Buffer. It is opened for read/write,
// exclusive, and removed when its reference count reaches zero.
type fileBuffer struct {
	f    *os.File
	path string
	size int64
	refs int32
	gone bool
}

func newFileBuffer(dir string) (*fileBuffer, error) {
	id := atomic.AddUint64(&monotonic, 1)
	pattern := fmt.Sprintf("room-content-%d-*.tmp", id)

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "room/content: create temp file")
	}
	return &fileBuffer{f: f, path: f.Name(), refs: 1}, nil
}

func (b *fileBuffer) Read(p []byte) (int, error) {
	n, err := b.f.Read(p)
	return n, err
}

func (b *fileBuffer) Write(p []byte) (int, error) {
	n, err := b.f.Write(p)
	b.size += int64(n)
	return n, err
}

func (b *fileBuffer) Seek(offset int64, whence int) (int64, error) {
	return b.f.Seek(offset, whence)
}

func (b *fileBuffer) Len() int64 { return b.size }

func (b *fileBuffer) Rewind() error {
	_, err := b.f.Seek(0, 0)
	return err
}

// Close removes the backing file in addition to closing the handle,
// implementing the spec's delete-on-close semantics. It is idempotent.
func (b *fileBuffer) Close() error {
	if b.gone {
		return nil
	}
	b.gone = true
	closeErr := b.f.Close()
	removeErr := os.Remove(b.path)
	if closeErr != nil {
		return closeErr
	}
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	return nil
}

func (b *fileBuffer) Retain() { atomic.AddInt32(&b.refs, 1) }

func (b *fileBuffer) Release() error {
	if atomic.AddInt32(&b.refs, -1) > 0 {
		return nil
	}
	return b.Close()
}

var _ Buffer = (*fileBuffer)(nil)
