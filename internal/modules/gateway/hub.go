// Package gateway pushes realtime platform events (research stage changes,
// notifications, content refreshes) to browser clients over socket.io,
// with Redis pub/sub fan-out across server instances.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	pkgredis "github.com/trendscope/core/internal/pkg/redis"
)

const (
	namespaceRealtime = "/realtime"
	redisChanEvents   = "ts:gateway:events"
)

// Message is the envelope used by hub broadcasts and Redis fan-out.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub manages the realtime namespace and cluster fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]struct{}

	broadcast  chan Message
	register   chan string
	unregister chan string

	rc     *pkgredis.Client
	logger *zap.Logger
	sio    *socketio.Server
}

func NewHub(rc *pkgredis.Client, logger *zap.Logger) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		clients:    make(map[string]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan string, 256),
		unregister: make(chan string, 256),
		rc:         rc,
		logger:     logger,
		sio:        sio,
	}
	h.registerNamespace()
	return h
}

func (h *Hub) registerNamespace() {
	ns := h.sio.Of(namespaceRealtime, nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}
		sid := string(client.Id())
		h.register <- sid
		_ = client.Emit("message", gatewayPayload{Type: "GATEWAY_CONNECT", Data: "WebSocket connected"})

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- sid
		})
	})
}

// Run starts the hub loop and Redis subscriber.
func (h *Hub) Run(ctx context.Context) {
	if h.rc != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case sid := <-h.register:
			h.mu.Lock()
			h.clients[sid] = struct{}{}
			h.mu.Unlock()

		case sid := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, sid)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

			if h.rc != nil {
				data, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				if err := h.rc.Publish(ctx, redisChanEvents, string(data)); err != nil && h.logger != nil {
					h.logger.Warn("gateway publish failed", zap.Error(err))
				}
			}
		}
	}
}

func (h *Hub) deliver(msg Message) {
	h.sio.Of(namespaceRealtime, nil).Emit("message", gatewayPayload{Type: msg.Event, Data: msg.Payload})
}

// subscribeRedis listens for broadcasts from other server instances.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h.deliver(msg)
		}
	}
}

// Broadcast queues an event for every connected client. Non-blocking; an
// overflowing queue drops the event rather than stalling the caller.
func (h *Hub) Broadcast(event string, payload interface{}) {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload}:
	default:
		if h.logger != nil {
			h.logger.Warn("gateway broadcast queue full, dropping event", zap.String("event", event))
		}
	}
}

// ClientCount returns the number of connected clients on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

// RegisterRoutes mounts socket.io and the stats endpoint.
func RegisterRoutes(rg *gin.RouterGroup, hub *Hub) {
	handler := gin.WrapH(hub.Handler())
	rg.Any("/socket.io", handler)
	rg.Any("/socket.io/*any", handler)

	rg.GET("/gateway/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"clients": hub.ClientCount()})
	})
}
