// Package roomtest provides an in-memory, loopback Transport pair for
// exercising roomcodec and roomservice without a real network socket,
// the same role the teacher's netconf/testserver package plays for
// NETCONF sessions.
package roomtest

import (
	"net"
	"sync/atomic"

	"github.com/roomproto/room/roomtransport"
)

// PipeTransport adapts one end of an in-process net.Pipe connection to
// the roomtransport.Transport contract.
type PipeTransport struct {
	conn  net.Conn
	alive int32
}

// NewPipePair returns two connected PipeTransports, client and server,
// each the live peer of the other.
func NewPipePair() (client, server *PipeTransport) {
	c, s := net.Pipe()
	return &PipeTransport{conn: c, alive: 1}, &PipeTransport{conn: s, alive: 1}
}

func (p *PipeTransport) Read(b []byte) (int, error) {
	n, err := p.conn.Read(b)
	if err != nil {
		atomic.StoreInt32(&p.alive, 0)
	}
	return n, err
}

func (p *PipeTransport) Write(b []byte) (int, error) {
	n, err := p.conn.Write(b)
	if err != nil {
		atomic.StoreInt32(&p.alive, 0)
	}
	return n, err
}

// IsAlive reports whether the pipe has not yet seen a read or write
// error and has not been explicitly closed.
func (p *PipeTransport) IsAlive() bool {
	return atomic.LoadInt32(&p.alive) == 1
}

// Close closes the underlying pipe half, marking the transport dead.
// Safe to call concurrently with a Read blocked in conn.Read, per
// net.Pipe's documented behaviour: the pending Read returns
// io.ErrClosedPipe.
func (p *PipeTransport) Close() error {
	atomic.StoreInt32(&p.alive, 0)
	return p.conn.Close()
}

var _ roomtransport.Transport = (*PipeTransport)(nil)
