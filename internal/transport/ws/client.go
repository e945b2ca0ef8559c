package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mafia/internal/app"
	"mafia/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn    *websocket.Conn
	hub     *app.RoomHub
	session *app.RoomSession
	userKey string
	send    chan []byte
	done    chan struct{}
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.RoomHub, session *app.RoomSession, userKey string, logger *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		hub:     hub,
		session: session,
		userKey: userKey,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// GetUserKey returns the user key for this client
func (c *Client) GetUserKey() string {
	return c.userKey
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "userKey", c.userKey)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c.userKey)
		c.session.Disconnect(c.userKey)
		c.session.CheckDone()
		c.hub.DeleteIfEmpty(c.session.GetRoomKey())
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgChoose:
		c.handleChoose(msg.Payload)
	case MsgAddJob:
		c.handleJob(msg.Payload, true)
	case MsgRemoveJob:
		c.handleJob(msg.Payload, false)
	case MsgCheckDone:
		c.session.CheckDone()
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgRoomList:
		c.Send(NewServerMessage(MsgRooms, c.hub.ListWaitingRooms()))
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleChoose handles a choose message. A rejected choice is reported
// back by the session as a cannot-choose event, not an error here.
func (c *Client) handleChoose(payload json.RawMessage) {
	var p ChoosePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	status, err := domain.ParseChoiceStatus(p.Status)
	if err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid choice status")
		return
	}

	c.session.SubmitChoice(c.userKey, p.Target, status)
}

// handleJob handles add_job and remove_job messages
func (c *Client) handleJob(payload json.RawMessage, add bool) {
	var p JobPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Job == "" {
		c.sendError(ErrCodeInvalidMessage, "Job name is required")
		return
	}

	var accepted bool
	if add {
		accepted = c.session.AddJob(p.Job)
	} else {
		accepted = c.session.RemoveJob(p.Job)
	}
	if !accepted {
		c.sendError(ErrCodeUnknownJob, "Unknown job name")
	}
}

// handleLeaveRoom handles a leave_room message
func (c *Client) handleLeaveRoom() {
	c.session.RemoveUser(c.userKey)
	c.session.CheckDone()
	c.hub.DeleteIfEmpty(c.session.GetRoomKey())
	c.Close()
}

// sendConnected sends the room snapshot to a newly joined client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		UserKey: c.userKey,
		RoomKey: c.session.GetRoomKey(),
		Phase:   int(c.session.GetPhase()),
		Users:   c.session.Roster(),
		Jobs:    c.session.JobCounts(),
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}
