package roomtransport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebSocketPair(t *testing.T) (*WebSocket, *websocket.Conn, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	var serverConn *websocket.Conn
	ready := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConn = c
		close(ready)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	<-ready

	cleanup := func() {
		_ = clientConn.Close()
		_ = serverConn.Close()
		srv.Close()
	}
	return NewWebSocket(clientConn), serverConn, cleanup
}

func TestWebSocketReadWriteRoundTrip(t *testing.T) {
	client, server, cleanup := newWebSocketPair(t)
	defer cleanup()

	require.NoError(t, server.WriteMessage(websocket.BinaryMessage, []byte("hello")))

	buf := make([]byte, 5)
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestWebSocketReadSplitsAcrossCalls(t *testing.T) {
	client, server, cleanup := newWebSocketPair(t)
	defer cleanup()

	require.NoError(t, server.WriteMessage(websocket.BinaryMessage, []byte("hello")))

	first := make([]byte, 2)
	n, err := client.Read(first)
	require.NoError(t, err)
	assert.Equal(t, "he", string(first[:n]))

	second := make([]byte, 10)
	n, err = client.Read(second)
	require.NoError(t, err)
	assert.Equal(t, "llo", string(second[:n]))
}

func TestWebSocketWriteSendsBinaryMessage(t *testing.T) {
	client, server, cleanup := newWebSocketPair(t)
	defer cleanup()

	n, err := client.Write([]byte("world"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	mt, data, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)
	assert.Equal(t, "world", string(data))
}

func TestWebSocketRejectsTextFrame(t *testing.T) {
	client, server, cleanup := newWebSocketPair(t)
	defer cleanup()

	require.NoError(t, server.WriteMessage(websocket.TextMessage, []byte("nope")))

	buf := make([]byte, 10)
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, client.IsAlive())
}

func TestWebSocketCloseFrameMapsToZeroByteRead(t *testing.T) {
	client, server, cleanup := newWebSocketPair(t)
	defer cleanup()

	require.NoError(t, server.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(time.Second),
	))

	buf := make([]byte, 10)
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, client.IsAlive())
}
