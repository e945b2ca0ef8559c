package domain

import "strings"

// JobName identifies a role. The set is closed; unknown names are rejected
// at the configuration boundary.
type JobName string

const (
	JobCitizen JobName = "citizen"
	JobPolice  JobName = "police"
	JobDoctor  JobName = "doctor"
	JobMafia   JobName = "mafia"
)

// Job is the behavior of one role. A single Job value is shared by every
// user holding that role within one game, so teammates can be recognized
// by name equality.
type Job interface {
	// Name returns the role's identifier
	Name() JobName
	// Group returns the faction this role wins with
	Group() Group
	// Order is the night resolution priority, lower acts first
	Order() int
	// VisibleTeam reports whether holders of this role know each other
	VisibleTeam() bool
	// CanAct reports whether this role takes a night action at all
	CanAct(st *RoomStatus) bool
	// CanTarget reports whether this role may target the given user
	CanTarget(target *User, st *RoomStatus) bool
	// Act applies the role's effect to the target. A nil result means the
	// action produced nothing to report.
	Act(target *User) *ActResult
}

// NewJob returns the job for a role name, matched case-insensitively.
// The second return is false for names outside the fixed vocabulary.
func NewJob(name string) (Job, bool) {
	switch JobName(strings.ToLower(name)) {
	case JobCitizen:
		return citizen{}, true
	case JobPolice:
		return police{}, true
	case JobDoctor:
		return doctor{}, true
	case JobMafia:
		return mafia{}, true
	}
	return nil, false
}

// citizen has no night action and does not know its teammates
type citizen struct{}

func (citizen) Name() JobName                     { return JobCitizen }
func (citizen) Group() Group                      { return GroupCitizen }
func (citizen) Order() int                        { return 100 }
func (citizen) VisibleTeam() bool                 { return false }
func (citizen) CanAct(*RoomStatus) bool           { return false }
func (citizen) CanTarget(*User, *RoomStatus) bool { return false }
func (citizen) Act(*User) *ActResult              { return nil }

// police investigates one user per night and learns whether the target is
// mafia. Only the police see the answer.
type police struct{}

func (police) Name() JobName     { return JobPolice }
func (police) Group() Group      { return GroupCitizen }
func (police) Order() int        { return 50 }
func (police) VisibleTeam() bool { return true }

func (police) CanAct(*RoomStatus) bool { return true }

func (police) CanTarget(target *User, _ *RoomStatus) bool {
	return target.CanAct()
}

func (police) Act(target *User) *ActResult {
	confirmed := target.Job != nil && target.Job.Name() == JobMafia
	return &ActResult{
		ResultType:   ResultBool,
		Scope:        string(JobPolice),
		Target:       target,
		Confirmation: confirmed,
	}
}

// doctor protects one user per night. The save only matters if a killer
// picks the same target, so it produces no result of its own.
type doctor struct{}

func (doctor) Name() JobName     { return JobDoctor }
func (doctor) Group() Group      { return GroupCitizen }
func (doctor) Order() int        { return 30 }
func (doctor) VisibleTeam() bool { return true }

func (doctor) CanAct(*RoomStatus) bool { return true }

func (doctor) CanTarget(target *User, _ *RoomStatus) bool {
	return target.CanAct()
}

func (doctor) Act(target *User) *ActResult {
	target.Status = StatusSaved
	return nil
}

// mafia kills one user per night. Mafia resolves after the doctor, so a
// saved target survives and the save is consumed silently.
type mafia struct{}

func (mafia) Name() JobName     { return JobMafia }
func (mafia) Group() Group      { return GroupMafia }
func (mafia) Order() int        { return 70 }
func (mafia) VisibleTeam() bool { return true }

func (mafia) CanAct(*RoomStatus) bool { return true }

func (mafia) CanTarget(target *User, _ *RoomStatus) bool {
	return target.CanAct()
}

func (mafia) Act(target *User) *ActResult {
	if target.Status == StatusSaved {
		target.Status = StatusAlive
		return nil
	}
	target.Status = StatusDead
	return &ActResult{
		ResultType: ResultUser,
		Scope:      ScopeAll,
		Target:     target,
	}
}
