package domain

import "math/rand"

// JobSlot holds the capacity configuration for one role and, once the
// game starts, the shared job instance all holders reference.
type JobSlot struct {
	Instance Job
	Count    int
}

// JobCount is the serializable form of one role's configured capacity
type JobCount struct {
	Job   JobName `json:"job"`
	Count int     `json:"count"`
}

// RoomStatus is the mutable state of a single room: roster, choice
// ledger, job configuration, round counter and current phase tag. All
// mutation is local; callers serialize access per room.
type RoomStatus struct {
	RoomKey string
	Users   []*User
	Choices []*Choice
	Jobs    map[JobName]*JobSlot
	Round   int
	Phase   PhaseType

	// jobOrder preserves configuration insertion order so tallies and
	// job listings stay deterministic
	jobOrder []JobName
}

// NewRoomStatus creates room state with the default configuration of one
// slot per role. Survivors from a finished game are carried over as
// fresh users; jobs, when given, preserve the previous game's capacities.
func NewRoomStatus(roomKey string, survivors []*User, jobs []JobCount) *RoomStatus {
	st := &RoomStatus{
		RoomKey: roomKey,
		Jobs:    make(map[JobName]*JobSlot),
	}

	if jobs == nil {
		jobs = []JobCount{
			{Job: JobCitizen, Count: 1},
			{Job: JobPolice, Count: 1},
			{Job: JobDoctor, Count: 1},
			{Job: JobMafia, Count: 1},
		}
	}
	for _, jc := range jobs {
		st.Jobs[jc.Job] = &JobSlot{Count: jc.Count}
		st.jobOrder = append(st.jobOrder, jc.Job)
	}

	for _, u := range survivors {
		st.AddUser(NewUser(u.Key, u.Name))
	}

	return st
}

// AddUser appends a user and an unanswered choice for them
func (st *RoomStatus) AddUser(user *User) {
	st.Users = append(st.Users, user)
	st.Choices = append(st.Choices, NewChoice(user))
}

// RemoveUser drops a user and their choice from the ledger
func (st *RoomStatus) RemoveUser(user *User) {
	for i, u := range st.Users {
		if u == user {
			st.Users = append(st.Users[:i], st.Users[i+1:]...)
			break
		}
	}
	for i, c := range st.Choices {
		if c.User == user {
			st.Choices = append(st.Choices[:i], st.Choices[i+1:]...)
			break
		}
	}
}

// GetUser finds a user by key, nil if absent
func (st *RoomStatus) GetUser(key string) *User {
	for _, u := range st.Users {
		if u.Key == key {
			return u
		}
	}
	return nil
}

// AddJob raises a role's configured capacity, creating the slot at one
// if the role is not yet configured
func (st *RoomStatus) AddJob(name JobName) {
	if slot, ok := st.Jobs[name]; ok {
		slot.Count++
		return
	}
	st.Jobs[name] = &JobSlot{Count: 1}
	st.jobOrder = append(st.jobOrder, name)
}

// RemoveJob lowers a role's configured capacity, dropping the slot once
// it reaches zero
func (st *RoomStatus) RemoveJob(name JobName) {
	slot, ok := st.Jobs[name]
	if !ok {
		return
	}
	slot.Count--
	if slot.Count < 1 {
		delete(st.Jobs, name)
		for i, n := range st.jobOrder {
			if n == name {
				st.jobOrder = append(st.jobOrder[:i], st.jobOrder[i+1:]...)
				break
			}
		}
	}
}

// JobCounts lists the configured roles in configuration order
func (st *RoomStatus) JobCounts() []JobCount {
	counts := make([]JobCount, 0, len(st.jobOrder))
	for _, name := range st.jobOrder {
		counts = append(counts, JobCount{Job: name, Count: st.Jobs[name].Count})
	}
	return counts
}

// SetChoice replaces a user's choice
func (st *RoomStatus) SetChoice(user *User, target string, status ChoiceStatus) error {
	for _, c := range st.Choices {
		if c.User == user {
			c.Set(target, status)
			return nil
		}
	}
	return ErrUserNotFound
}

// AllChoicesFinalized reports whether every user who can act has a fixed
// choice
func (st *RoomStatus) AllChoicesFinalized() bool {
	for _, c := range st.Choices {
		if c.User.CanAct() && c.Status != ChoiceFixed {
			return false
		}
	}
	return true
}

// ResetChoices retracts every choice
func (st *RoomStatus) ResetChoices() {
	for _, c := range st.Choices {
		c.Reset()
	}
}

// AdvanceRound bumps the round counter
func (st *RoomStatus) AdvanceRound() {
	st.Round++
}

// CanStart reports whether the roster exactly fills the configured job
// capacities
func (st *RoomStatus) CanStart() bool {
	total := 0
	for _, slot := range st.Jobs {
		total += slot.Count
	}
	return len(st.Users) == total
}

// ShuffleJobs deals roles to users uniformly at random. Each configured
// role gets exactly one shared instance; users holding the same role
// reference the same value. No-op unless the room can start.
func (st *RoomStatus) ShuffleJobs() {
	if !st.CanStart() {
		return
	}

	deck := make([]JobName, 0, len(st.Users))
	for _, name := range st.jobOrder {
		slot := st.Jobs[name]
		job, ok := NewJob(string(name))
		if !ok {
			continue
		}
		slot.Instance = job
		for i := 0; i < slot.Count; i++ {
			deck = append(deck, name)
		}
	}

	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	for i, u := range st.Users {
		u.Job = st.Jobs[deck[i]].Instance
	}
}

// ClearTemporaryStatuses reverts saves and marks disconnected users dead
func (st *RoomStatus) ClearTemporaryStatuses() {
	for _, u := range st.Users {
		u.ClearTemporaryStatus()
	}
}

// EvaluateWin checks every faction present among acting users and
// returns the first winner. Safe to call before jobs are assigned.
func (st *RoomStatus) EvaluateWin() (Group, bool) {
	seen := make(map[Group]bool)
	for _, u := range st.Users {
		if !u.CanAct() {
			continue
		}
		if u.Job == nil {
			// pre-game roster, nobody can win yet
			return GroupNone, false
		}
		g := u.Job.Group()
		if g == GroupNone || seen[g] {
			continue
		}
		seen[g] = true
		if g.Wins(st) {
			return g, true
		}
	}
	return GroupNone, false
}

// ChoiceInfos returns the serializable choice ledger, one entry per user
func (st *RoomStatus) ChoiceInfos() []UserChoiceInfo {
	infos := make([]UserChoiceInfo, 0, len(st.Choices))
	for _, c := range st.Choices {
		infos = append(infos, c.ToUserInfo())
	}
	return infos
}
