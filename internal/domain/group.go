package domain

// Group identifies a faction. Win conditions are evaluated per group over
// the users who can still act.
type Group string

const (
	GroupCitizen Group = "citizen_group"
	GroupMafia   Group = "mafia_group"
	GroupNone    Group = "" // neutral roles carry no faction
)

// Wins reports whether this faction has met its win condition against the
// room's current roster.
func (g Group) Wins(st *RoomStatus) bool {
	acting := 0
	mine := 0
	for _, u := range st.Users {
		if !u.CanAct() {
			continue
		}
		acting++
		if u.Job != nil && u.Job.Group() == g {
			mine++
		}
	}

	switch g {
	case GroupCitizen:
		// Citizens win once every acting user is on their side.
		return mine == acting
	case GroupMafia:
		// Mafia wins at parity. An exact half counts as a win.
		return 2*mine >= acting
	}
	return false
}
