package domain

// ResultType tells the caller how to read an ActResult
type ResultType string

const (
	// ResultUser carries a user payload, e.g. a kill victim
	ResultUser ResultType = "user"
	// ResultBool carries a yes/no answer about the target
	ResultBool ResultType = "bool"
)

// ScopeAll marks a result every user may see; any other scope is a job
// name and restricts the result to that job's members.
const ScopeAll = "all"

// ActResult is the outcome of one night action. The engine never sends
// it anywhere; the transport layer filters by scope per recipient.
type ActResult struct {
	ResultType   ResultType
	Scope        string
	Target       *User
	Confirmation bool
}

// VisibleTo reports whether the given user may receive this result
func (r *ActResult) VisibleTo(u *User) bool {
	if r.Scope == ScopeAll {
		return true
	}
	return u.Job != nil && string(u.Job.Name()) == r.Scope
}

// ActResultInfo is the serializable view of an act result
type ActResultInfo struct {
	ResultType ResultType  `json:"result_type"`
	Result     interface{} `json:"result"`
}

// BoolResultInfo is the payload of a ResultBool act result
type BoolResultInfo struct {
	Target       string `json:"target"`
	Confirmation bool   `json:"confirmation"`
}

// ToInfo converts an ActResult to its broadcast form
func (r *ActResult) ToInfo() ActResultInfo {
	info := ActResultInfo{ResultType: r.ResultType}
	switch r.ResultType {
	case ResultUser:
		info.Result = r.Target.ToInfo()
	case ResultBool:
		info.Result = BoolResultInfo{Target: r.Target.Key, Confirmation: r.Confirmation}
	}
	return info
}
