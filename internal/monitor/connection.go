package monitor

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jeffleon2/draftea-settlement-service/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

type ConnectionEventType int

const (
	Connected ConnectionEventType = iota
	Disconnected
)

func (t ConnectionEventType) String() string {
	if t == Connected {
		return "connected"
	}
	return "disconnected"
}

// ConnectionEvent reports a transition of the subscription channel. Epoch
// increases by one on every successful dial.
type ConnectionEvent struct {
	Type  ConnectionEventType
	Epoch uint64
}

// Connection keeps a single websocket to the node open, redialling after a
// fixed delay whenever it drops. Inbound frames are delivered on Messages.
type Connection struct {
	url            string
	dialer         *websocket.Dialer
	reconnectDelay time.Duration

	writeMu   sync.Mutex
	conn      *websocket.Conn
	epoch     uint64
	connected atomic.Bool

	messages  chan []byte
	events    chan ConnectionEvent
	closed    chan struct{}
	closeOnce sync.Once
}

func NewConnection(url string, reconnectDelay time.Duration) *Connection {
	return &Connection{
		url:            url,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: reconnectDelay,
		messages:       make(chan []byte, 256),
		events:         make(chan ConnectionEvent, 16),
		closed:         make(chan struct{}),
	}
}

func (c *Connection) Messages() <-chan []byte {
	return c.messages
}

func (c *Connection) Events() <-chan ConnectionEvent {
	return c.events
}

func (c *Connection) IsConnected() bool {
	return c.connected.Load()
}

// Run dials and reads until ctx is cancelled or Close is called. Any close
// or error schedules a redial after the reconnect delay.
func (c *Connection) Run(ctx context.Context) {
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			logrus.Errorf("websocket dial to %s failed: %v", c.url, err)
		} else {
			c.readLoop(ctx, conn)
		}

		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-time.After(c.reconnectDelay):
			logrus.Infof("reconnecting websocket to %s", c.url)
		}
	}
}

func (c *Connection) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	c.conn = conn
	c.epoch++
	epoch := c.epoch
	c.connected.Store(true)
	c.writeMu.Unlock()

	logrus.Infof("websocket connected to %s", c.url)
	metrics.ConnectionEventsTotal.WithLabelValues(Connected.String()).Inc()
	c.emit(ctx, ConnectionEvent{Type: Connected, Epoch: epoch})
	return conn, nil
}

func (c *Connection) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(ctx, conn, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.drop(ctx, conn, err)
			return
		}
		select {
		case c.messages <- data:
		case <-ctx.Done():
			c.drop(ctx, conn, ctx.Err())
			return
		case <-c.closed:
			c.drop(ctx, conn, nil)
			return
		}
	}
}

// keepAlive pings the node and closes the socket when ctx or Close fires,
// which unblocks ReadMessage.
func (c *Connection) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-c.closed:
			_ = conn.Close()
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				logrus.Warnf("websocket ping failed: %v", err)
			}
		}
	}
}

func (c *Connection) drop(ctx context.Context, conn *websocket.Conn, cause error) {
	c.writeMu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	epoch := c.epoch
	c.connected.Store(false)
	c.writeMu.Unlock()
	_ = conn.Close()

	if cause != nil {
		logrus.Warnf("websocket disconnected: %v", cause)
	}
	metrics.ConnectionEventsTotal.WithLabelValues(Disconnected.String()).Inc()
	c.emit(ctx, ConnectionEvent{Type: Disconnected, Epoch: epoch})
}

func (c *Connection) emit(ctx context.Context, ev ConnectionEvent) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	case <-c.closed:
	}
}

// Send writes v as a JSON text frame. It returns false when the socket is
// not open or the write fails.
func (c *Connection) Send(v interface{}) bool {
	_, ok := c.SendWithEpoch(v)
	return ok
}

// SendWithEpoch is Send that also reports which connection epoch carried
// the frame.
func (c *Connection) SendWithEpoch(v interface{}) (uint64, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		logrus.Errorf("error encoding websocket message: %v", err)
		return 0, false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil || !c.connected.Load() {
		return 0, false
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logrus.Warnf("websocket write failed: %v", err)
		return 0, false
	}
	return c.epoch, true
}

// Close stops Run and closes the socket.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.connected.Store(false)
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
