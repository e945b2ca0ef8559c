package domain

// DayPhase is open discussion. The only decision is where to go next:
// hold an election or head straight into night.
type DayPhase struct {
	phaseBase
}

// Sentinels a user may submit during the day
const (
	TargetElection = "election"
	TargetNight    = "night"
)

// NewDayPhase creates the day processor for a room
func NewDayPhase(st *RoomStatus) *DayPhase {
	return &DayPhase{phaseBase: newPhaseBase(st, PhaseDay)}
}

func (p *DayPhase) Type() PhaseType { return PhaseDay }

func (p *DayPhase) AddUser(key, _ string) bool { return p.connectUser(key) }
func (p *DayPhase) RemoveUser(key string) bool { return p.disconnectUser(key) }

// ChooseAllowed permits picking the next phase or retracting
func (p *DayPhase) ChooseAllowed(user *User, target string, status ChoiceStatus) bool {
	if !user.CanAct() {
		return false
	}
	if (target == TargetElection || target == TargetNight) && status == ChoiceFixed {
		return true
	}
	return status == ChoiceYet
}

func (p *DayPhase) Choose(userKey, target string, status ChoiceStatus) bool {
	return submitChoice(p, userKey, target, status)
}

// Next tallies the phase vote by plurality and moves to the winner.
// Refuses to advance before the phase is done.
func (p *DayPhase) Next() Processor {
	if !p.Done() {
		return nil
	}
	p.status.ClearTemporaryStatuses()

	targets := make([]string, 0, len(p.status.Choices))
	for _, c := range p.status.Choices {
		targets = append(targets, c.Target)
	}
	target, _ := mostCommon(targets)

	if target == TargetElection {
		return NewElectionPhase(p.status)
	}
	return NewNightPhase(p.status)
}
