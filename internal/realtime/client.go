package realtime

import (
	"sync"

	"fittrack_backend/internal/logger"

	"github.com/gorilla/websocket"
)

// Client - одно открытое live-соединение участника
type Client struct {
	MemberID string
	Send     chan any

	conn     *websocket.Conn
	registry *Registry
	done     chan struct{}
	once     sync.Once
}

// NewClient создает клиента вокруг websocket-соединения.
// conn может быть nil (используется в тестах реестра).
func NewClient(memberID string, conn *websocket.Conn, registry *Registry, sendBufferSize int) *Client {
	if sendBufferSize <= 0 {
		sendBufferSize = 256
	}
	return &Client{
		MemberID: memberID,
		Send:     make(chan any, sendBufferSize),
		conn:     conn,
		registry: registry,
		done:     make(chan struct{}),
	}
}

// Done закрывается, когда соединение выселено из реестра
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// shutdown сигналит pump-ам и закрывает соединение ровно один раз.
// Send не закрывается: конкурентный Push может держать канал в select
func (c *Client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump держит соединение и отлавливает закрытие со стороны клиента.
// Входящие сообщения не обрабатываются: канал односторонний, server-to-client.
func (c *Client) readPump() {
	defer c.registry.Unregister(c.MemberID, c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug("realtime connection closed", "member_id", c.MemberID, "error", err.Error())
			return
		}
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.Send:
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Debug("realtime write failed", "member_id", c.MemberID, "error", err.Error())
				c.registry.Unregister(c.MemberID, c)
				return
			}
		case <-c.done:
			return
		}
	}
}
