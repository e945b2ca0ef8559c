package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mafia/internal/domain"
)

const (
	// DefaultRoomKeyLength is the default length for generated room keys
	DefaultRoomKeyLength = 6

	// StaleRoomTimeout is how long before an empty room is cleaned up
	StaleRoomTimeout = 2 * time.Hour
)

// RoomKeyChars are characters used for room keys (no ambiguous chars)
const RoomKeyChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomHub manages all active room sessions
type RoomHub struct {
	sessions        map[string]*RoomSession
	mu              sync.RWMutex
	roomKeyLength   int
	staleTimeout    time.Duration
	cleanupInterval time.Duration
	logger          *slog.Logger
	done            chan struct{}
}

// RoomDescription is the serializable summary of a joinable room
type RoomDescription struct {
	Name string `json:"name"`
	Num  int    `json:"num"`
}

// HubOptions tune the hub's housekeeping behavior
type HubOptions struct {
	RoomKeyLength   int
	StaleTimeout    time.Duration
	CleanupInterval time.Duration
}

// NewRoomHub creates a new room hub
func NewRoomHub(logger *slog.Logger, opts HubOptions) *RoomHub {
	if opts.RoomKeyLength <= 0 {
		opts.RoomKeyLength = DefaultRoomKeyLength
	}
	if opts.StaleTimeout <= 0 {
		opts.StaleTimeout = StaleRoomTimeout
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 10 * time.Minute
	}

	hub := &RoomHub{
		sessions:        make(map[string]*RoomSession),
		roomKeyLength:   opts.RoomKeyLength,
		staleTimeout:    opts.StaleTimeout,
		cleanupInterval: opts.CleanupInterval,
		logger:          logger,
		done:            make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a room under a generated key and returns its session
func (h *RoomHub) CreateRoom() (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomKey string
	for attempts := 0; attempts < 10; attempts++ {
		roomKey = h.generateRoomKey()
		if _, exists := h.sessions[roomKey]; !exists {
			break
		}
	}

	if _, exists := h.sessions[roomKey]; exists {
		return nil, fmt.Errorf("failed to generate unique room key")
	}

	session := h.createLocked(roomKey)
	return session, nil
}

// GetOrCreateSession returns the session for a room key, creating the
// room on first join
func (h *RoomHub) GetOrCreateSession(roomKey string) *RoomSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomKey]; ok {
		return session
	}
	return h.createLocked(roomKey)
}

func (h *RoomHub) createLocked(roomKey string) *RoomSession {
	session := NewRoomSession(domain.NewRoom(roomKey), h.logger)
	h.sessions[roomKey] = session
	h.logger.Info("room created", "roomKey", roomKey)
	return session
}

// GetSession returns a room session by key
func (h *RoomHub) GetSession(roomKey string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomKey]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// DeleteSession removes a room session
func (h *RoomHub) DeleteSession(roomKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomKey]; ok {
		session.Close()
		delete(h.sessions, roomKey)
		h.logger.Info("room deleted", "roomKey", roomKey)
	}
}

// DeleteIfEmpty removes a room once no connected users remain
func (h *RoomHub) DeleteIfEmpty(roomKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[roomKey]
	if !ok {
		return
	}
	if session.GetConnectedCount() > 0 {
		return
	}
	session.Close()
	delete(h.sessions, roomKey)
	h.logger.Info("empty room deleted", "roomKey", roomKey)
}

// ListWaitingRooms lists the rooms still in their lobby phase
func (h *RoomHub) ListWaitingRooms() []RoomDescription {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms := make([]RoomDescription, 0, len(h.sessions))
	for roomKey, session := range h.sessions {
		if !session.IsWaiting() {
			continue
		}
		rooms = append(rooms, RoomDescription{
			Name: roomKey,
			Num:  session.GetUserCount(),
		})
	}
	return rooms
}

// GetSessionCount returns the number of active rooms
func (h *RoomHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalUserCount returns the total number of users across all rooms
func (h *RoomHub) GetTotalUserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.GetUserCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// generateRoomKey generates a random room key
func (h *RoomHub) generateRoomKey() string {
	b := make([]byte, h.roomKeyLength)
	rand.Read(b)

	key := make([]byte, h.roomKeyLength)
	for i := range key {
		key[i] = RoomKeyChars[int(b[i])%len(RoomKeyChars)]
	}

	return string(key)
}

// cleanupLoop periodically cleans up stale rooms
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(h.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms that have sat empty for too long
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	stale := make([]string, 0)

	for roomKey, session := range h.sessions {
		if session.GetUserCount() == 0 && now.Sub(session.GetCreatedAt()) > h.staleTimeout {
			stale = append(stale, roomKey)
		}
	}

	for _, roomKey := range stale {
		if session, ok := h.sessions[roomKey]; ok {
			session.Close()
			delete(h.sessions, roomKey)
			h.logger.Info("stale room cleaned up", "roomKey", roomKey)
		}
	}
}
