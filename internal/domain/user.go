package domain

// UserStatus represents a user's liveness within the current game
type UserStatus string

const (
	StatusAlive UserStatus = "alive"
	StatusDead  UserStatus = "dead"
	StatusSaved UserStatus = "saved" // protected by the doctor this night
)

// User represents a participant in a room
type User struct {
	Key       string
	Name      string
	Status    UserStatus
	Connected bool
	Job       Job // nil until jobs are shuffled
}

// NewUser creates a new user with the given key and display name
func NewUser(key, name string) *User {
	return &User{
		Key:       key,
		Name:      name,
		Status:    StatusAlive,
		Connected: true,
	}
}

// CanAct returns true if the user can participate in the current phase
func (u *User) CanAct() bool {
	return u.Status != StatusDead && u.Connected
}

// Execute marks the user as dead. Dead users never return to play.
func (u *User) Execute() {
	u.Status = StatusDead
}

// ClearTemporaryStatus reverts a doctor's save and finishes off users who
// went missing mid-game. A disconnected user who is not already dead
// becomes dead.
func (u *User) ClearTemporaryStatus() {
	if u.Status == StatusSaved {
		u.Status = StatusAlive
	}
	if u.Status != StatusDead && !u.Connected {
		u.Status = StatusDead
	}
}

// SameTeam returns true if both users hold the same job
func (u *User) SameTeam(other *User) bool {
	return u.Job != nil && other.Job != nil && u.Job.Name() == other.Job.Name()
}

// UserInfo is the serializable view of a user
type UserInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    UserStatus `json:"status"`
	Connected bool       `json:"connected"`
}

// ToInfo converts a User to its broadcast form (job stays hidden)
func (u *User) ToInfo() UserInfo {
	return UserInfo{
		ID:        u.Key,
		Name:      u.Name,
		Status:    u.Status,
		Connected: u.Connected,
	}
}
