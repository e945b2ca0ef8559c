package domain

// PhaseType is the ordinal tag of a phase, used by callers to decide
// recipient filtering
type PhaseType int

const (
	PhaseWaiting PhaseType = iota
	PhaseDay
	PhaseElection
	PhaseNight
)

// String returns the phase name
func (p PhaseType) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseDay:
		return "day"
	case PhaseElection:
		return "election"
	case PhaseNight:
		return "night"
	}
	return "unknown"
}

// Processor drives one phase of a room's cycle. Exactly one processor is
// current per room; constructing one resets the choice ledger. The
// processor never advances itself, the caller checks Done and invokes
// Next.
type Processor interface {
	// Type returns the phase ordinal
	Type() PhaseType
	// Status exposes the wrapped room state
	Status() *RoomStatus
	// AddUser admits or reconnects a user, depending on the phase
	AddUser(key, name string) bool
	// RemoveUser drops or disconnects a user, depending on the phase
	RemoveUser(key string) bool
	// Reconnect marks a user connected
	Reconnect(key string) bool
	// Disconnect marks a user disconnected, or removes them while waiting
	Disconnect(key string) bool
	// AddJob raises a role's capacity, only meaningful while waiting
	AddJob(name string) bool
	// RemoveJob lowers a role's capacity, only meaningful while waiting
	RemoveJob(name string) bool
	// Choose records a user's submission if the phase allows it
	Choose(userKey, target string, status ChoiceStatus) bool
	// ChooseAllowed reports whether a submission would be legal
	ChooseAllowed(user *User, target string, status ChoiceStatus) bool
	// Done reports whether the phase is complete
	Done() bool
	// Next produces the successor processor, nil if the phase refuses to
	// advance
	Next() Processor
}

// phaseBase carries the behavior every phase shares
type phaseBase struct {
	status *RoomStatus
}

// newPhaseBase tags the room with the phase and starts it unanswered
func newPhaseBase(st *RoomStatus, t PhaseType) phaseBase {
	st.ResetChoices()
	st.Phase = t
	return phaseBase{status: st}
}

func (p *phaseBase) Status() *RoomStatus { return p.status }

func (p *phaseBase) GetUser(key string) *User { return p.status.GetUser(key) }

func (p *phaseBase) Reconnect(key string) bool {
	user := p.status.GetUser(key)
	if user == nil {
		return false
	}
	user.Connected = true
	return true
}

func (p *phaseBase) Disconnect(key string) bool {
	user := p.status.GetUser(key)
	if user == nil {
		return false
	}
	user.Connected = false
	return true
}

func (p *phaseBase) Done() bool { return p.status.AllChoicesFinalized() }

// Job configuration is rejected outside the waiting phase
func (p *phaseBase) AddJob(string) bool    { return false }
func (p *phaseBase) RemoveJob(string) bool { return false }

// connectUser and disconnectUser are the in-game membership changes:
// once a game runs, joining and leaving only toggle connectivity.
func (p *phaseBase) connectUser(key string) bool    { return p.Reconnect(key) }
func (p *phaseBase) disconnectUser(key string) bool { return p.Disconnect(key) }

// submitChoice resolves the user and applies the phase's legality rules.
// A failed submission leaves the existing choice untouched.
func submitChoice(p Processor, userKey, target string, status ChoiceStatus) bool {
	user := p.Status().GetUser(userKey)
	if user == nil || !p.ChooseAllowed(user, target, status) {
		return false
	}
	return p.Status().SetChoice(user, target, status) == nil
}
