package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single message write.
	writeWait = 10 * time.Second

	// pongWait is how long the peer may stay silent before the read side
	// gives up. Pings go out at pingPeriod to keep it alive.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize allows large graphs with cached outputs attached.
	maxMessageSize = 10 << 20
)

// Conn is the transport the bridge speaks over. WSConn is the production
// implementation; tests substitute in-memory fakes.
type Conn interface {
	// Send writes one message. Safe for concurrent use.
	Send(msg Message) error

	// Receive blocks until the next message or a transport error.
	Receive() (Message, error)

	// Close tears the transport down; pending Receives fail.
	Close() error
}

// WSConn adapts a gorilla WebSocket connection to Conn, with write
// serialization, read/write deadlines, and keepalive pings.
type WSConn struct {
	ws        *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// NewWSConn wraps an established WebSocket connection.
func NewWSConn(ws *websocket.Conn) *WSConn {
	c := &WSConn{ws: ws, done: make(chan struct{})}
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.pingLoop()
	return c
}

// Dial connects to a remote runner endpoint.
func Dial(ctx context.Context, url string) (*WSConn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return NewWSConn(ws), nil
}

func (c *WSConn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send implements Conn.
func (c *WSConn) Send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(msg)
}

// Receive implements Conn.
func (c *WSConn) Receive() (Message, error) {
	var msg Message
	if err := c.ws.ReadJSON(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Close implements Conn.
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}
