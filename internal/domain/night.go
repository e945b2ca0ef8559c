package domain

import "sort"

// NightPhase is when roles act in secret. Each acting role settles on one
// target by plurality, then the effects apply in resolution order so the
// doctor's save lands before any kill.
type NightPhase struct {
	phaseBase
}

// NewNightPhase creates the night processor for a room
func NewNightPhase(st *RoomStatus) *NightPhase {
	return &NightPhase{phaseBase: newPhaseBase(st, PhaseNight)}
}

func (p *NightPhase) Type() PhaseType { return PhaseNight }

func (p *NightPhase) AddUser(key, _ string) bool { return p.connectUser(key) }
func (p *NightPhase) RemoveUser(key string) bool { return p.disconnectUser(key) }

// ChooseAllowed permits retracting, abstaining, or naming a target the
// user's own role is allowed to act on
func (p *NightPhase) ChooseAllowed(user *User, target string, status ChoiceStatus) bool {
	if !user.CanAct() {
		return false
	}
	if target == "" || status == ChoiceYet {
		return true
	}
	targetUser := p.GetUser(target)
	return targetUser != nil && user.Job != nil && user.Job.CanTarget(targetUser, p.status)
}

func (p *NightPhase) Choose(userKey, target string, status ChoiceStatus) bool {
	return submitChoice(p, userKey, target, status)
}

// Done only waits on users whose role acts at night; everyone else is
// excused
func (p *NightPhase) Done() bool {
	for _, c := range p.status.Choices {
		if !c.User.CanAct() || c.User.Job == nil || !c.User.Job.CanAct(p.status) {
			continue
		}
		if c.Status != ChoiceFixed {
			return false
		}
	}
	return true
}

// action is one resolved night decision awaiting its effect
type action struct {
	job    Job
	target *User
}

// Result picks each acting role's plurality target and applies the
// effects in resolution order, threading user state from one action into
// the next. Nil until the phase is done; roles with no votes simply
// contribute nothing.
func (p *NightPhase) Result() []*ActResult {
	if !p.Done() {
		return nil
	}

	actions := make([]action, 0, len(p.status.jobOrder))
	for _, name := range p.status.jobOrder {
		job := p.status.Jobs[name].Instance
		if job == nil || !job.CanAct(p.status) {
			continue
		}

		var targets []string
		for _, c := range p.status.Choices {
			if c.Status != ChoiceFixed || c.Target == "" {
				continue
			}
			if c.User.Job == nil || c.User.Job.Name() != name {
				continue
			}
			targets = append(targets, c.Target)
		}
		if len(targets) == 0 {
			continue
		}

		targetKey, _ := mostCommon(targets)
		if target := p.GetUser(targetKey); target != nil {
			actions = append(actions, action{job: job, target: target})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].job.Order() < actions[j].job.Order()
	})

	results := make([]*ActResult, 0, len(actions))
	for _, a := range actions {
		if r := a.job.Act(a.target); r != nil {
			results = append(results, r)
		}
	}
	return results
}

// Next closes the round and opens a new day
func (p *NightPhase) Next() Processor {
	p.status.ClearTemporaryStatuses()
	p.status.AdvanceRound()
	return NewDayPhase(p.status)
}
