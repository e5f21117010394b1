package preview

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 50 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Message is sent to every connected preview page.
type Message struct {
	Type        string `json:"type"` // render | focus | unhighlight
	HTML        string `json:"html,omitempty"`
	BlockID     string `json:"blockId,omitempty"`
	Behavior    string `json:"behavior,omitempty"`
	Block       string `json:"block,omitempty"`
	HighlightMs int64  `json:"highlightMs,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to websocket clients. Slow clients are dropped
// rather than blocking the sender.
type Hub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, clients: make(map[*client]struct{})}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues m for every client.
func (h *Hub) Broadcast(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("encode preview message", zap.Error(err))
		return
	}
	var failed []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		h.remove(c)
	}
}

// serve registers conn, sends initial, and pumps until the peer leaves.
func (h *Hub) serve(ctx context.Context, conn *websocket.Conn, initial []Message) {
	c := &client{conn: conn, send: make(chan []byte, 64)}
	for _, m := range initial {
		if data, err := json.Marshal(m); err == nil {
			c.send <- data
		}
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("preview client connected", zap.Int("clients", n))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.readPump(ctx, c, cancel)
	h.writePump(ctx, c)
	h.remove(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug("preview client disconnected", zap.Int("clients", n))
	}
}

// readPump discards client messages and cancels on disconnect.
func (h *Hub) readPump(ctx context.Context, c *client, cancel context.CancelFunc) {
	defer cancel()
	c.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				h.logger.Debug("preview websocket read", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.logger.Debug("preview websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
