package websocket

import (
	"encoding/json"
	"strings"
	"time"
)

// Handler answers the few commands a feed client may send. The feed is
// otherwise read-only.
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) HandleClientMessage(client *Client, data []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	if msg.Type != MessageTypeCommand {
		return &ValidationError{Field: "type", Message: "only commands are accepted"}
	}
	return h.handleCommand(client, msg)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func (h *Handler) handleCommand(client *Client, msg ClientMessage) error {
	reply := ServerMessage{ID: client.ID, Type: MessageTypeSystem, Timestamp: time.Now()}
	switch strings.ToLower(strings.TrimSpace(msg.Command)) {
	case "ping":
		reply.Content = "pong"
	case "online":
		if !client.Admin {
			reply.Type = MessageTypeError
			reply.Content = "admin only"
			break
		}
		users := h.manager.GetActiveUsers()
		reply.Content = "online users"
		reply.Metadata = map[string]interface{}{"users": users, "count": len(users)}
	default:
		reply.Type = MessageTypeError
		reply.Content = "unknown command"
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	h.manager.SendToClient(client.ID, data)
	return nil
}
