package websocket

import "time"

type MessageType string

const (
	MessageTypeEvent   MessageType = "event"
	MessageTypeSystem  MessageType = "system"
	MessageTypeCommand MessageType = "command"
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeError   MessageType = "error"
)

const (
	RoomGlobal = "global"
	RoomAdmin  = "admin"
)

type ClientMessage struct {
	Type    MessageType `json:"type"`
	Command string      `json:"command,omitempty"`
}

type ServerMessage struct {
	ID        string                 `json:"id"`
	Type      MessageType            `json:"type"`
	Room      string                 `json:"room,omitempty"`
	Content   string                 `json:"content,omitempty"`
	Event     interface{}            `json:"event,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
