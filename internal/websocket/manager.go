package websocket

import (
	"sync"
	"time"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/metrics"
	"github.com/gorilla/websocket"
)

type Client struct {
	ID          string
	Username    string
	Admin       bool
	Conn        *websocket.Conn
	Send        chan []byte
	Manager     *Manager
	Handler     *Handler
	LastActive  time.Time
	ConnectedAt time.Time
	mu          sync.Mutex
}

// Manager owns the set of connected feed clients and their rooms. Every
// client is in the global room; admins are also in the admin room.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	rooms      map[string]map[*Client]struct{}
	done       chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case <-m.done:
			return
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			m.joinLocked(client, RoomGlobal)
			if client.Admin {
				m.joinLocked(client, RoomAdmin)
			}
			metrics.SetActiveConnections(int64(len(m.clients)))
			m.mu.Unlock()

		case client := <-m.unregister:
			m.mu.Lock()
			m.removeLocked(client)
			metrics.SetActiveConnections(int64(len(m.clients)))
			m.mu.Unlock()
		}
	}
}

// Stop ends Run. Connected clients are left to their pumps.
func (m *Manager) Stop() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Manager) joinLocked(c *Client, room string) {
	if _, ok := m.rooms[room]; !ok {
		m.rooms[room] = make(map[*Client]struct{})
	}
	m.rooms[room][c] = struct{}{}
}

func (m *Manager) removeLocked(c *Client) {
	if _, ok := m.clients[c.ID]; !ok {
		return
	}
	delete(m.clients, c.ID)
	close(c.Send)
	for room, set := range m.rooms {
		delete(set, c)
		if len(set) == 0 {
			delete(m.rooms, room)
		}
	}
}

// BroadcastRoom queues message for every client in room. Clients whose
// buffer is full are disconnected.
func (m *Manager) BroadcastRoom(room string, message []byte) {
	if room == "" {
		room = RoomGlobal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.rooms[room]
	if !ok {
		return
	}
	for c := range set {
		select {
		case c.Send <- message:
		default:
			logger.Warn("ws_client_slow_dropped", "client_id", c.ID, "username", c.Username)
			metrics.IncrementEventsDropped()
			m.removeLocked(c)
		}
	}
}

func (m *Manager) GetClient(id string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	return client, ok
}

func (m *Manager) GetActiveUsers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{}, len(m.clients))
	users := make([]string, 0, len(m.clients))
	for _, c := range m.clients {
		if _, ok := seen[c.Username]; ok {
			continue
		}
		seen[c.Username] = struct{}{}
		users = append(users, c.Username)
	}
	return users
}

func (m *Manager) GetClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) GetRoomClientCount(room string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[room])
}

// SendToClient sends under the read lock; Send is only closed under the
// write lock.
func (m *Manager) SendToClient(id string, message []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Manager.unregister <- c:
		case <-c.Manager.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.UpdateActivity()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("ws_read_error", "error", err.Error(), "client_id", c.ID)
			}
			break
		}
		c.UpdateActivity()
		if c.Handler != nil {
			if err := c.Handler.HandleClientMessage(c, message); err != nil {
				logger.Warn("ws_message_rejected", "error", err.Error(), "client_id", c.ID)
			}
		}
	}
}

func (c *Client) UpdateActivity() {
	c.mu.Lock()
	c.LastActive = time.Now()
	c.mu.Unlock()
}

func (c *Client) GetLastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LastActive
}

func (c *Client) WritePump() {
	defer c.Conn.Close()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
