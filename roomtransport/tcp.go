package roomtransport

import (
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
)

// TCP adapts a connected net.Conn to the Transport contract.
type TCP struct {
	conn  net.Conn
	alive int32
}

// NewTCP wraps an already-connected net.Conn. The caller remains
// responsible for dialing; TCP only adds the liveness flag the service
// loop polls.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn, alive: 1}
}

// DialTCP connects to addr and wraps the resulting connection.
func DialTCP(network, addr string) (*TCP, error) {
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, errors.Wrap(err, "room/transport: dial")
	}
	return NewTCP(conn), nil
}

func (t *TCP) Read(p []byte) (int, error) {
	n, err := t.conn.Read(p)
	if err != nil {
		atomic.StoreInt32(&t.alive, 0)
	}
	return n, err
}

func (t *TCP) Write(p []byte) (int, error) {
	n, err := t.conn.Write(p)
	if err != nil {
		atomic.StoreInt32(&t.alive, 0)
	}
	return n, err
}

// IsAlive reports whether the connection has not yet seen a read or
// write error and has not been explicitly closed.
func (t *TCP) IsAlive() bool {
	return atomic.LoadInt32(&t.alive) == 1
}

// Close closes the underlying connection, marking the transport dead.
// Safe to call concurrently with a Read blocked in conn.Read; that Read
// returns promptly once the connection closes.
func (t *TCP) Close() error {
	atomic.StoreInt32(&t.alive, 0)
	return t.conn.Close()
}

var _ Transport = (*TCP)(nil)
