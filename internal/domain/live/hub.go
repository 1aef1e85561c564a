package live

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub-admin-api/internal/domain/queue"
)

// Redis channel the queue event feed fans out on. Every API instance
// subscribes, so operators see events regardless of which instance
// handled the mutation.
const queueEventsChannel = "live:queue_events"

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

type queueEventEnvelope struct {
	Event            queue.Event `json:"event"`
	SenderInstanceID string      `json:"sender_instance_id"`
}

// Connection represents one operator WebSocket session
type Connection struct {
	AdminID uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub fans queue events out to connected operator sessions, with
// Redis Pub/Sub bridging instances. Works without Redis too: events
// then only reach operators on the publishing instance.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates the live event hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, queueEventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.AdminID] == nil {
				h.connections[conn.AdminID] = make(map[*Connection]bool)
			}
			h.connections[conn.AdminID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Str("admin_id", conn.AdminID.String()).Msg("Operator connected to live feed")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.AdminID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.AdminID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("admin_id", conn.AdminID.String()).Msg("Operator disconnected from live feed")
		}
	}
}

// PublishQueueEvent broadcasts a queue event to every connected
// operator session on every instance.
func (h *Hub) PublishQueueEvent(ctx context.Context, event queue.Event) {
	envelope := queueEventEnvelope{
		Event:            event,
		SenderInstanceID: h.instanceID,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal queue event")
		return
	}

	// Local clients get the event directly; Redis relays it to the
	// other instances, which skip the sender's copy.
	h.broadcastLocal(event)

	if h.redis != nil {
		if err := h.redis.Publish(ctx, queueEventsChannel, payload).Err(); err != nil {
			log.Error().Err(err).Msg("Failed to publish queue event to Redis")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Channel != queueEventsChannel {
				continue
			}

			var envelope queueEventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				continue
			}
			if envelope.SenderInstanceID == h.instanceID {
				continue
			}

			h.broadcastLocal(envelope.Event)
		}
	}
}

// broadcastLocal sends the event to sessions on THIS instance
func (h *Hub) broadcastLocal(event queue.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for adminID, conns := range h.connections {
		for conn := range conns {
			select {
			case conn.Send <- data:
				wsEventsSentTotal.Add(1)
			default:
				// Buffer full, skip this message
				wsEventsDroppedTotal.Add(1)
				log.Warn().Str("admin_id", adminID.String()).Msg("WebSocket send buffer full")
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Shutdown stops the hub and closes the Redis subscription
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
}
