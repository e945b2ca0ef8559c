package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types. Game events flow the other way as
// domain.GameEvent values, so the server vocabulary below only covers
// what the event stream does not.
const (
	MsgLeaveRoom MessageType = "leave_room"
	MsgChoose    MessageType = "choose"
	MsgAddJob    MessageType = "add_job"
	MsgRemoveJob MessageType = "remove_job"
	MsgCheckDone MessageType = "check_done"
	MsgRoomList  MessageType = "room_list"
	MsgPing      MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgRooms     MessageType = "rooms"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server. Payload is
// decoded per message type.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// ChoosePayload is the payload for the choose message. Target is a user
// key or a phase sentinel; an empty target is an abstention.
type ChoosePayload struct {
	Target string `json:"target"`
	Status string `json:"status"`
}

// JobPayload is the payload for add_job and remove_job messages
type JobPayload struct {
	Job string `json:"job"`
}

// Server message payloads

// ConnectedPayload is the payload for the connected message
type ConnectedPayload struct {
	UserKey string      `json:"userKey"`
	RoomKey string      `json:"roomKey"`
	Phase   int         `json:"phase"`
	Users   interface{} `json:"users"`
	Jobs    interface{} `json:"jobs"`
}

// ErrorPayload is the payload for the error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeUnknownJob     = "UNKNOWN_JOB"
	ErrCodeInvalidAction  = "INVALID_ACTION"
)
