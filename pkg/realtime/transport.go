package realtime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var errTransportClosed = errors.New("transport closed")

// transport owns exactly one live websocket connection. It only knows
// whether it is open or closed; a failed read or an explicit close marks it
// closed for good. The supervisor replaces it wholesale on reconnect.
type transport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	closed  atomic.Bool
}

func newTransport(conn *websocket.Conn) *transport {
	return &transport{conn: conn}
}

// writeText writes one text frame. Frames from concurrent callers are
// serialized so each write stays atomic on the wire.
func (t *transport) writeText(data []byte) error {
	if t.closed.Load() {
		return errTransportClosed
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.closed.Store(true)
		return err
	}
	return nil
}

// writeJSON writes one frame through the connection's JSON encoder.
func (t *transport) writeJSON(v any) error {
	if t.closed.Load() {
		return errTransportClosed
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteJSON(v); err != nil {
		t.closed.Store(true)
		return err
	}
	return nil
}

// read blocks for the next frame. Close frames and transport failures both
// surface as the returned error.
func (t *transport) read() (int, []byte, error) {
	if t.closed.Load() {
		return 0, nil, errTransportClosed
	}
	msgType, data, err := t.conn.ReadMessage()
	if err != nil {
		t.closed.Store(true)
		return 0, nil, err
	}
	return msgType, data, nil
}

func (t *transport) close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.conn.Close()
}

func (t *transport) isClosed() bool {
	return t.closed.Load()
}
