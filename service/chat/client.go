package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents one live session between a user and the gateway.
// A single user may have multiple devices/connections, each maintained
// separately; the registry groups them by user id.
type Client struct {
	ConnID      string          // unique connection id (snowflake, local to this gateway)
	UserID      string          // resolved at handshake, immutable afterwards
	WS          *websocket.Conn // underlying connection
	Send        chan []byte     // outbound queue, consumed by a single writer goroutine
	ConnectedAt time.Time

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient creates a new client session object.
func NewClient(connID, userID string, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID:      connID,
		UserID:      userID,
		WS:          ws,
		Send:        make(chan []byte, sendQueueSize),
		ConnectedAt: time.Now(),
		done:        make(chan struct{}),
	}
}

// CloseSend signals the writer goroutine to stop. The Send channel itself is
// never closed: the fanout pool may still hold a reference to this client
// for an event already dispatched, and its non-blocking enqueue must not
// panic on a closed channel.
func (c *Client) CloseSend() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) Done() <-chan struct{} { return c.done }
