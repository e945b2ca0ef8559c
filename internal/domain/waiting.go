package domain

// WaitingPhase is the lobby state. Users join and leave freely, the job
// configuration is adjusted here, and everyone readies up before a game
// starts.
type WaitingPhase struct {
	phaseBase
}

// TargetReady is the sentinel a user submits to ready up
const TargetReady = "ready"

// NewWaitingPhase creates the lobby processor for a room
func NewWaitingPhase(st *RoomStatus) *WaitingPhase {
	return &WaitingPhase{phaseBase: newPhaseBase(st, PhaseWaiting)}
}

func (p *WaitingPhase) Type() PhaseType { return PhaseWaiting }

// AddUser admits a new user. Duplicate keys are rejected.
func (p *WaitingPhase) AddUser(key, name string) bool {
	if p.GetUser(key) != nil {
		return false
	}
	p.status.AddUser(NewUser(key, name))
	return true
}

// RemoveUser drops the user from the roster entirely
func (p *WaitingPhase) RemoveUser(key string) bool {
	user := p.GetUser(key)
	if user == nil {
		return false
	}
	p.status.RemoveUser(user)
	return true
}

// Disconnect removes the user; there is no game to hold a seat in
func (p *WaitingPhase) Disconnect(key string) bool {
	return p.RemoveUser(key)
}

// AddJob raises a role's configured capacity
func (p *WaitingPhase) AddJob(name string) bool {
	job, ok := NewJob(name)
	if !ok {
		return false
	}
	p.status.AddJob(job.Name())
	return true
}

// RemoveJob lowers a role's configured capacity
func (p *WaitingPhase) RemoveJob(name string) bool {
	job, ok := NewJob(name)
	if !ok {
		return false
	}
	p.status.RemoveJob(job.Name())
	return true
}

// ChooseAllowed permits readying up or retracting
func (p *WaitingPhase) ChooseAllowed(user *User, target string, status ChoiceStatus) bool {
	if !user.CanAct() {
		return false
	}
	if target == TargetReady && status == ChoiceFixed {
		return true
	}
	return status == ChoiceYet
}

func (p *WaitingPhase) Choose(userKey, target string, status ChoiceStatus) bool {
	return submitChoice(p, userKey, target, status)
}

// Done additionally requires the roster to fill the job configuration
func (p *WaitingPhase) Done() bool {
	return p.phaseBase.Done() && p.status.CanStart()
}

// Result deals the roles and returns the roster. Nil until everyone is
// ready and the room can start.
func (p *WaitingPhase) Result() []*User {
	if !p.Done() {
		return nil
	}
	p.status.ShuffleJobs()
	return p.status.Users
}

// Next opens the first day
func (p *WaitingPhase) Next() Processor {
	p.status.AdvanceRound()
	p.status.ClearTemporaryStatuses()
	return NewDayPhase(p.status)
}
