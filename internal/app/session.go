package app

import (
	"log/slog"
	"sync"
	"time"

	"mafia/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetUserKey() string
	Close() error
}

// RoomSession wraps a room with concurrency control and client
// management. Every engine operation on the room goes through the
// session's mutex, so submissions and phase advances never interleave.
type RoomSession struct {
	room      *domain.Room
	mu        sync.RWMutex
	clients   map[string]ClientConnection // userKey -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger
	createdAt time.Time

	events chan *domain.GameEvent
	done   chan struct{}
}

// NewRoomSession creates a session around a room
func NewRoomSession(room *domain.Room, logger *slog.Logger) *RoomSession {
	session := &RoomSession{
		room:      room,
		clients:   make(map[string]ClientConnection),
		logger:    logger,
		createdAt: time.Now(),
		events:    make(chan *domain.GameEvent, 100),
		done:      make(chan struct{}),
	}

	go session.eventLoop()

	return session
}

// GetRoomKey returns the room identifier
func (s *RoomSession) GetRoomKey() string {
	return s.room.Key()
}

// GetCreatedAt returns when the session was created
func (s *RoomSession) GetCreatedAt() time.Time {
	return s.createdAt
}

// GetUserCount returns the roster size
func (s *RoomSession) GetUserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.room.Users())
}

// GetConnectedCount returns the number of connected users
func (s *RoomSession) GetConnectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.ConnectedCount()
}

// GetPhase returns the current phase ordinal
func (s *RoomSession) GetPhase() domain.PhaseType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Type()
}

// IsWaiting reports whether the room is in its lobby phase
func (s *RoomSession) IsWaiting() bool {
	return s.GetPhase() == domain.PhaseWaiting
}

// RegisterClient registers a client connection for a user
func (s *RoomSession) RegisterClient(userKey string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[userKey] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(userKey string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, userKey)
}

// AddUser admits a user through the current phase and announces the
// roster change
func (s *RoomSession) AddUser(userKey, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.AddUser(userKey, name) {
		return false
	}
	s.queueMemberChanged(userKey, name)
	return true
}

// RemoveUser drops or disconnects a user, depending on the phase
func (s *RoomSession) RemoveUser(userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.room.GetUser(userKey)
	if user == nil {
		return false
	}
	name := user.Name
	if !s.room.RemoveUser(userKey) {
		return false
	}
	s.queueMemberChanged(userKey, name)
	return true
}

// Reconnect marks a user connected again
func (s *RoomSession) Reconnect(userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.Reconnect(userKey) {
		return false
	}
	user := s.room.GetUser(userKey)
	s.queueMemberChanged(userKey, user.Name)
	return true
}

// Disconnect marks a user disconnected, or removes them while waiting
func (s *RoomSession) Disconnect(userKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.room.GetUser(userKey)
	if user == nil {
		return false
	}
	name := user.Name
	if !s.room.Disconnect(userKey) {
		return false
	}
	s.queueMemberChanged(userKey, name)
	return true
}

// SubmitChoice records a user's decision. An accepted choice is
// announced to the room, but at night only the chooser's teammates see
// it. A rejected one earns the chooser a cannot-choose notice.
func (s *RoomSession) SubmitChoice(userKey, target string, status domain.ChoiceStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.Choose(userKey, target, status) {
		s.queueEvent(domain.NewUserEvent(domain.EventCannotChoose, s.room.Key(), userKey,
			&domain.CannotChoosePayload{User: userKey, Target: target}))
		return false
	}

	payload := &domain.ChoiceChangedPayload{
		User:   userKey,
		Choice: domain.ChoiceInfo{Target: target, Status: status},
	}

	if s.room.Type() == domain.PhaseNight {
		for _, mate := range s.teammates(s.room.GetUser(userKey)) {
			s.queueEvent(domain.NewUserEvent(domain.EventChoiceChanged, s.room.Key(), mate.Key, payload))
		}
	} else {
		s.queueEvent(domain.NewEvent(domain.EventChoiceChanged, s.room.Key(), payload))
	}
	return true
}

// AddJob raises a role's configured capacity
func (s *RoomSession) AddJob(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.AddJob(name)
}

// RemoveJob lowers a role's configured capacity
func (s *RoomSession) RemoveJob(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.RemoveJob(name)
}

// Roster returns the serializable user+choice list
func (s *RoomSession) Roster() []domain.UserChoiceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Status().ChoiceInfos()
}

// JobCounts returns the configured role capacities
func (s *RoomSession) JobCounts() []domain.JobCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.JobCounts()
}

// CheckDone advances the room if its phase is complete: capture the
// phase result, transition, send each connected user their filtered
// view of what happened, then evaluate the win condition. Returns true
// if a transition happened.
func (s *RoomSession) CheckDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.Done() {
		return false
	}

	prev := s.room.Type()

	var roster []*domain.User
	var victim *domain.User
	var acts []*domain.ActResult

	switch p := s.room.Phase().(type) {
	case *domain.WaitingPhase:
		roster = p.Result()
	case *domain.ElectionPhase:
		victim = p.Result()
	case *domain.NightPhase:
		acts = p.Result()
	}

	if !s.room.NextPhase() {
		return false
	}

	for _, user := range s.room.Users() {
		if !user.Connected {
			continue
		}
		payload := &domain.PhaseChangedPayload{
			PrevPhase: int(prev),
			Phase:     int(s.room.Type()),
			Result:    s.resultFor(user, prev, roster, victim, acts),
		}
		s.queueEvent(domain.NewUserEvent(domain.EventPhaseChanged, s.room.Key(), user.Key, payload))
	}

	s.queueEvent(domain.NewEvent(domain.EventMemberChanged, s.room.Key(), &domain.MemberChangedPayload{
		Users: s.room.Status().ChoiceInfos(),
	}))

	if winner, over := s.room.GameDone(); over {
		s.logger.Info("game over", "roomKey", s.room.Key(), "winner", winner)
		s.queueEvent(domain.NewEvent(domain.EventGameDone, s.room.Key(),
			&domain.GameDonePayload{Winner: winner}))
		s.queueEvent(domain.NewEvent(domain.EventMemberChanged, s.room.Key(), &domain.MemberChangedPayload{
			Users: s.room.Status().ChoiceInfos(),
		}))
	}

	return true
}

// resultFor builds one recipient's view of a phase outcome
func (s *RoomSession) resultFor(user *domain.User, prev domain.PhaseType,
	roster []*domain.User, victim *domain.User, acts []*domain.ActResult) domain.PhaseResultPayload {

	var result domain.PhaseResultPayload

	switch prev {
	case domain.PhaseWaiting:
		if user.Job != nil {
			result.Job = string(user.Job.Name())
			for _, mate := range s.teammatesOf(user, roster) {
				result.TeamMates = append(result.TeamMates, mate.ToInfo())
			}
		}
	case domain.PhaseElection:
		if victim != nil {
			info := victim.ToInfo()
			result.Victim = &info
		}
	case domain.PhaseNight:
		for _, act := range acts {
			if act.VisibleTo(user) {
				result.ActList = append(result.ActList, act.ToInfo())
			}
		}
	}

	if s.room.Type() == domain.PhaseNight {
		for _, target := range s.room.Users() {
			if s.room.CanTarget(user, target) {
				result.Targets = append(result.Targets, target.ToInfo())
			}
		}
	}

	return result
}

// teammates returns who is allowed to see a user's night choice: the
// whole team when the role knows its members, otherwise just the user
func (s *RoomSession) teammates(user *domain.User) []*domain.User {
	if user == nil {
		return nil
	}
	return s.teammatesOf(user, s.room.Users())
}

func (s *RoomSession) teammatesOf(user *domain.User, users []*domain.User) []*domain.User {
	if user.Job == nil || !user.Job.VisibleTeam() {
		return []*domain.User{user}
	}
	mates := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if user.SameTeam(u) {
			mates = append(mates, u)
		}
	}
	return mates
}

// queueMemberChanged announces a roster change. Caller holds the lock.
func (s *RoomSession) queueMemberChanged(userKey, name string) {
	s.queueEvent(domain.NewEvent(domain.EventMemberChanged, s.room.Key(), &domain.MemberChangedPayload{
		ID:    userKey,
		Name:  name,
		Users: s.room.Status().ChoiceInfos(),
	}))
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the appropriate clients
func (s *RoomSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.UserKey != "" {
		if client, ok := s.clients[event.UserKey]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "userKey", event.UserKey, "error", err)
			}
		}
		return
	}

	for userKey, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "userKey", userKey, "error", err)
		}
	}
}

// Close shuts down the session
func (s *RoomSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
