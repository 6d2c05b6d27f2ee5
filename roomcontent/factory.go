package roomcontent

// New allocates a Buffer sized to hold n declared content bytes: the
// shared null buffer when n is 0, an in-memory buffer when n is at or
// below maxFast, or a temp-file-backed buffer under dir otherwise. The
// factory retains no reference to the returned Buffer; the caller owns
// its lifetime from this point.
func New(n int64, maxFast int64, dir string) (Buffer, error) {
	switch {
	case n == 0:
		return sharedNullBuffer, nil
	case n <= maxFast:
		return newMemoryBuffer(n), nil
	default:
		return newFileBuffer(dir)
	}
}
