package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans timer state updates out to each user's open sockets. One
// redis subscription per user is held while at least one socket is up.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	redisClient *redis.Client
	jwtSecret   []byte
	cancelFuncs map[string]context.CancelFunc
}

func NewHub(redisClient *redis.Client, jwtSecret string) *Hub {
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		redisClient: redisClient,
		jwtSecret:   []byte(jwtSecret),
		cancelFuncs: make(map[string]context.CancelFunc),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on websocket upgrades, so the
	// access token arrives as a query param.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.registerConnection(uid, conn)

	go func() {
		defer h.unregisterConnection(uid, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) registerConnection(uid string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[uid] = append(h.connections[uid], conn)

	// First socket for this user starts the pub/sub relay.
	if len(h.connections[uid]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[uid] = cancel
		go h.subscribeToPubSub(ctx, uid)
	}

	log.Printf("WebSocket connected: user %s (total: %d)", uid, len(h.connections[uid]))
}

func (h *Hub) unregisterConnection(uid string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[uid]
	for i, c := range conns {
		if c == conn {
			h.connections[uid] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[uid]) == 0 {
		delete(h.connections, uid)
		if cancel, ok := h.cancelFuncs[uid]; ok {
			cancel()
			delete(h.cancelFuncs, uid)
		}
	}

	log.Printf("WebSocket disconnected: user %s", uid)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, uid string) {
	channel := "timer:" + uid
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(uid, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(uid string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections[uid] {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// SendToUser pushes a message to a user's sockets without going
// through redis.
func (h *Hub) SendToUser(uid string, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.broadcast(uid, data)
}
