package domain

// ChoiceStatus represents how final a user's submission is
type ChoiceStatus string

const (
	// ChoiceYet means no submission, or a retracted one
	ChoiceYet ChoiceStatus = "yet"
	// ChoiceTmp is a visible but not yet final signal (election only)
	ChoiceTmp ChoiceStatus = "tmp"
	// ChoiceFixed is a final submission counted in tallies
	ChoiceFixed ChoiceStatus = "fixed"
)

// ParseChoiceStatus validates a wire-format choice status
func ParseChoiceStatus(s string) (ChoiceStatus, error) {
	switch ChoiceStatus(s) {
	case ChoiceYet, ChoiceTmp, ChoiceFixed:
		return ChoiceStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// Choice is one user's decision for the current phase. Target is a user
// key or a phase sentinel such as "ready"; empty means no target.
type Choice struct {
	User   *User
	Target string
	Status ChoiceStatus
}

// NewChoice creates an unanswered choice for a user
func NewChoice(user *User) *Choice {
	return &Choice{User: user, Status: ChoiceYet}
}

// Set replaces the choice's target and status
func (c *Choice) Set(target string, status ChoiceStatus) {
	c.Target = target
	c.Status = status
}

// Reset retracts the choice
func (c *Choice) Reset() {
	c.Target = ""
	c.Status = ChoiceYet
}

// ChoiceInfo is the serializable view of a choice
type ChoiceInfo struct {
	Target string       `json:"target"`
	Status ChoiceStatus `json:"status"`
}

// ToInfo converts a Choice to its broadcast form
func (c *Choice) ToInfo() ChoiceInfo {
	return ChoiceInfo{Target: c.Target, Status: c.Status}
}

// UserChoiceInfo pairs a user snapshot with their current choice
type UserChoiceInfo struct {
	UserInfo
	Choice ChoiceInfo `json:"choice"`
}

// ToUserInfo converts a Choice to the combined user+choice broadcast form
func (c *Choice) ToUserInfo() UserChoiceInfo {
	return UserChoiceInfo{UserInfo: c.User.ToInfo(), Choice: c.ToInfo()}
}

// mostCommon returns the most frequent value and its count. Ties break
// toward the value seen first, so tallies stay deterministic regardless
// of how votes split.
func mostCommon(values []string) (string, int) {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount
}
