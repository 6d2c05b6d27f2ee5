package roomtransport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// closeInvalidMessageType is sent back to a peer that frames a text
// message; Room content is binary-only on the wire.
const closeInvalidMessageType = 4000

// closeControlWriteTimeout bounds how long a rejecting close control
// frame is allowed to take to write before we give up on it.
const closeControlWriteTimeout = 5 * time.Second

// WebSocket adapts a *websocket.Conn to the Transport contract. Reads
// are message-oriented on the wire but byte-oriented at this layer: a
// read buffers one inbound WebSocket message at a time and serves it
// out over however many Read calls the caller issues. Every Write call
// emits one complete binary WebSocket message.
type WebSocket struct {
	conn *websocket.Conn

	mu      sync.Mutex
	pending []byte

	alive int32
}

// NewWebSocket wraps an already-established *websocket.Conn.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	return &WebSocket{conn: conn, alive: 1}
}

// Read implements io.Reader. A text frame from the peer is a protocol
// violation: it is rejected with a close carrying
// closeInvalidMessageType and reported to the caller as a 0-byte read
// (err == nil), mirroring the spec's directive to return 0 rather than
// an error for this case; the caller's next Read then observes the
// transport's death via IsAlive. A close frame is mapped to the same
// 0-byte, nil-error read after a graceful close-out.
func (w *WebSocket) Read(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		if !w.IsAlive() {
			return 0, nil
		}
		mt, data, err := w.conn.ReadMessage()
		if err != nil {
			atomic.StoreInt32(&w.alive, 0)
			if _, ok := err.(*websocket.CloseError); ok {
				return 0, nil
			}
			return 0, err
		}
		if mt == websocket.TextMessage {
			_ = w.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(closeInvalidMessageType, "text frames are not permitted"),
				time.Now().Add(closeControlWriteTimeout),
			)
			atomic.StoreInt32(&w.alive, 0)
			return 0, nil
		}
		w.pending = data
	}

	n := copy(p, w.pending)
	w.pending = w.pending[n:]
	return n, nil
}

// Write implements io.Writer, emitting p as one complete binary
// WebSocket message.
func (w *WebSocket) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		atomic.StoreInt32(&w.alive, 0)
		return 0, err
	}
	return len(p), nil
}

// IsAlive reports whether the connection is open: no close frame or
// transport error has yet been observed.
func (w *WebSocket) IsAlive() bool {
	return atomic.LoadInt32(&w.alive) == 1
}

// Close closes the underlying WebSocket connection. It deliberately
// does not take w.mu: Read can be blocked in conn.ReadMessage holding
// that lock, and Close must still be able to run concurrently to
// unblock it.
func (w *WebSocket) Close() error {
	atomic.StoreInt32(&w.alive, 0)
	return w.conn.Close()
}

var _ Transport = (*WebSocket)(nil)
