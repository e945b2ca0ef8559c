package domain

// ElectionPhase lets the room vote on executing a suspect. Votes may stay
// tentative for soft signaling; only fixed votes count, and an execution
// needs a strict majority of acting users.
type ElectionPhase struct {
	phaseBase
}

// NewElectionPhase creates the election processor for a room
func NewElectionPhase(st *RoomStatus) *ElectionPhase {
	return &ElectionPhase{phaseBase: newPhaseBase(st, PhaseElection)}
}

func (p *ElectionPhase) Type() PhaseType { return PhaseElection }

func (p *ElectionPhase) AddUser(key, _ string) bool { return p.connectUser(key) }
func (p *ElectionPhase) RemoveUser(key string) bool { return p.disconnectUser(key) }

// ChooseAllowed permits voting for a living user (tentatively or
// finally), abstaining, or retracting
func (p *ElectionPhase) ChooseAllowed(user *User, target string, status ChoiceStatus) bool {
	if !user.CanAct() {
		return false
	}
	if status == ChoiceTmp || status == ChoiceFixed {
		if t := p.GetUser(target); t != nil && t.CanAct() {
			return true
		}
	}
	if status == ChoiceYet {
		return true
	}
	return target == ""
}

func (p *ElectionPhase) Choose(userKey, target string, status ChoiceStatus) bool {
	return submitChoice(p, userKey, target, status)
}

// Result executes the top-voted user if their votes exceed half of the
// acting users. Returns nil both before the phase is done and when no
// majority forms; an exact half is not enough.
func (p *ElectionPhase) Result() *User {
	if !p.Done() {
		return nil
	}

	targets := make([]string, 0, len(p.status.Choices))
	acting := 0
	for _, c := range p.status.Choices {
		targets = append(targets, c.Target)
		if c.User.CanAct() {
			acting++
		}
	}
	targetKey, votes := mostCommon(targets)

	target := p.GetUser(targetKey)
	if target == nil || target.Status == StatusDead {
		return nil
	}
	if 2*votes > acting {
		target.Execute()
		return target
	}
	return nil
}

// Next always falls into night
func (p *ElectionPhase) Next() Processor {
	p.status.ClearTemporaryStatuses()
	return NewNightPhase(p.status)
}
