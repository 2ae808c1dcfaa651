package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/events"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/models"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod     = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RoleLookup returns the stored role of a user.
type RoleLookup func(username string) (models.Role, error)

// RevocationCheck reports whether a token has been logged out.
type RevocationCheck func(token string) bool

type Server struct {
	manager   *Manager
	handler   *Handler
	jwtSecret string
	roleOf    RoleLookup
	isRevoked RevocationCheck
}

func NewServer(jwtSecret string, roleOf RoleLookup, isRevoked RevocationCheck) *Server {
	manager := NewManager()
	handler := NewHandler(manager)
	go manager.Run()

	return &Server{
		manager:   manager,
		handler:   handler,
		jwtSecret: jwtSecret,
		roleOf:    roleOf,
		isRevoked: isRevoked,
	}
}

func (s *Server) Manager() *Manager { return s.manager }

func (s *Server) Close() { s.manager.Stop() }

func (s *Server) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Fail(c, http.StatusUnauthorized, "token required")
		return
	}

	claims, err := utils.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	if s.isRevoked != nil && s.isRevoked(token) {
		utils.Fail(c, http.StatusUnauthorized, "token has been revoked")
		return
	}

	admin := false
	if s.roleOf != nil {
		role, err := s.roleOf(claims.Username)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "unknown user")
			return
		}
		admin = role.Normalize() == models.RoleAdmin
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("ws_upgrade_failed", "error", err.Error())
		return
	}

	connID, _ := utils.GenerateID(8)
	now := time.Now()
	client := &Client{
		ID:          connID,
		Username:    claims.Username,
		Admin:       admin,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     s.manager,
		Handler:     s.handler,
		LastActive:  now,
		ConnectedAt: now,
	}

	rooms := []string{RoomGlobal}
	if admin {
		rooms = append(rooms, RoomAdmin)
	}
	welcome := ServerMessage{
		ID:        connID,
		Type:      MessageTypeWelcome,
		Content:   "connected to event feed",
		Timestamp: now,
		Metadata:  map[string]interface{}{"rooms": rooms, "username": claims.Username},
	}
	// Queued before register: once the manager owns the client it may close Send.
	if data, err := json.Marshal(welcome); err == nil {
		client.Send <- data
	}

	select {
	case s.manager.register <- client:
	case <-s.manager.done:
		conn.Close()
		return
	}
	logger.Info("ws_client_connected", "username", claims.Username, "client_id", connID, "admin", admin)

	go client.WritePump()
	go client.ReadPump()
}

// Deliver routes a domain event to feed clients. Account events only reach
// admins; catalog events reach everyone.
func (s *Server) Deliver(ev events.Event) {
	room := RoomForEvent(ev.Type)
	msg := ServerMessage{
		ID:        ev.ID,
		Type:      MessageTypeEvent,
		Room:      room,
		Content:   ev.Message,
		Event:     ev,
		Timestamp: time.Unix(ev.Timestamp, 0),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws_event_encode_failed", "error", err.Error(), "type", ev.Type)
		return
	}
	s.manager.BroadcastRoom(room, data)
}

func RoomForEvent(eventType string) string {
	switch eventType {
	case events.TypeMangaAdded:
		return RoomGlobal
	default:
		return RoomAdmin
	}
}

func (s *Server) GetActiveUsers() []string {
	return s.manager.GetActiveUsers()
}
