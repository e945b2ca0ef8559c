package domain

// Room binds room state to its current phase processor. The room never
// advances itself; the caller checks Done and invokes NextPhase, then
// GameDone.
type Room struct {
	status *RoomStatus
	phase  Processor
}

// NewRoom creates a room in the waiting phase with the default job
// configuration
func NewRoom(key string) *Room {
	status := NewRoomStatus(key, nil, nil)
	return &Room{
		status: status,
		phase:  NewWaitingPhase(status),
	}
}

// Key returns the room identifier
func (r *Room) Key() string { return r.status.RoomKey }

// Phase returns the current phase processor
func (r *Room) Phase() Processor { return r.phase }

// Type returns the current phase ordinal
func (r *Room) Type() PhaseType { return r.phase.Type() }

// Status exposes the underlying room state
func (r *Room) Status() *RoomStatus { return r.status }

// Round returns the current round counter
func (r *Room) Round() int { return r.status.Round }

// GetUser finds a user by key, nil if absent
func (r *Room) GetUser(key string) *User { return r.status.GetUser(key) }

// AddUser delegates to the current phase
func (r *Room) AddUser(key, name string) bool { return r.phase.AddUser(key, name) }

// RemoveUser delegates to the current phase
func (r *Room) RemoveUser(key string) bool { return r.phase.RemoveUser(key) }

// Reconnect marks a user connected
func (r *Room) Reconnect(key string) bool { return r.phase.Reconnect(key) }

// Disconnect marks a user disconnected, or removes them while waiting
func (r *Room) Disconnect(key string) bool { return r.phase.Disconnect(key) }

// Choose records a user's submission if the phase allows it
func (r *Room) Choose(userKey, target string, status ChoiceStatus) bool {
	return r.phase.Choose(userKey, target, status)
}

// CanTarget reports whether a finalized choice naming the target would be
// legal for the user right now
func (r *Room) CanTarget(user, target *User) bool {
	return r.phase.ChooseAllowed(user, target.Key, ChoiceFixed)
}

// AddJob raises a role's capacity, only meaningful while waiting
func (r *Room) AddJob(name string) bool { return r.phase.AddJob(name) }

// RemoveJob lowers a role's capacity, only meaningful while waiting
func (r *Room) RemoveJob(name string) bool { return r.phase.RemoveJob(name) }

// JobCounts lists the configured roles
func (r *Room) JobCounts() []JobCount { return r.status.JobCounts() }

// Users returns the roster
func (r *Room) Users() []*User { return r.status.Users }

// Choices returns the choice ledger
func (r *Room) Choices() []*Choice { return r.status.Choices }

// Done reports whether the current phase is complete
func (r *Room) Done() bool { return r.phase.Done() }

// NextPhase advances to the successor phase. Returns false if the
// current phase refuses the transition.
func (r *Room) NextPhase() bool {
	next := r.phase.Next()
	if next == nil {
		return false
	}
	r.phase = next
	return true
}

// ConnectedCount returns the number of connected users
func (r *Room) ConnectedCount() int {
	count := 0
	for _, u := range r.status.Users {
		if u.Connected {
			count++
		}
	}
	return count
}

// GameDone evaluates the win condition. On a win the room resets for a
// new game: connected users keep their seats as fresh players, the job
// configuration survives, and a new waiting phase begins.
func (r *Room) GameDone() (Group, bool) {
	winner, ok := r.status.EvaluateWin()
	if !ok {
		return GroupNone, false
	}

	survivors := make([]*User, 0, len(r.status.Users))
	for _, u := range r.status.Users {
		if u.Connected {
			survivors = append(survivors, u)
		}
	}

	r.status = NewRoomStatus(r.status.RoomKey, survivors, r.status.JobCounts())
	r.phase = NewWaitingPhase(r.status)

	return winner, true
}
