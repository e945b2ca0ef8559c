package domain

// giveJob hands a user the shared instance for a role, raising the
// configured capacity to match.
func giveJob(st *RoomStatus, u *User, name JobName) {
	st.AddJob(name)
	slot := st.Jobs[name]
	if slot.Instance == nil {
		slot.Instance, _ = NewJob(string(name))
	}
	u.Job = slot.Instance
}

// newTown builds room state with one user per given role, keyed a, b,
// c... in order, jobs already dealt and capacities matching the roster.
func newTown(roles ...JobName) (*RoomStatus, []*User) {
	st := NewRoomStatus("room1", nil, []JobCount{})
	users := make([]*User, 0, len(roles))
	for i, role := range roles {
		u := NewUser(string(rune('a'+i)), "name")
		st.AddUser(u)
		giveJob(st, u, role)
		users = append(users, u)
	}
	return st, users
}
