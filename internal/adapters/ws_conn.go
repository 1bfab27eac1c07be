package adapters

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"watchroom/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// wsConn is the transport endpoint for one client. It implements
// core.ClientConn; the adapter owns and closes it.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame
	once sync.Once
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		conn: ws,
		send: make(chan core.Frame, 256),
	}
}

func (c *wsConn) TrySend(f core.Frame) error {
	select {
	case c.send <- f:
		return nil
	default:
		return ErrBackpressure
	}
}

// Close shuts the underlying socket. The send channel stays open — a
// late unicast may still TrySend harmlessly; the write pump exits via
// context cancel.
func (c *wsConn) Close() {
	c.once.Do(func() {
		_ = c.conn.Close()
	})
}
