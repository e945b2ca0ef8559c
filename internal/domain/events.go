package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventMemberChanged EventType = "MEMBER_CHANGED"
	EventChoiceChanged EventType = "CHOICE_CHANGED"
	EventCannotChoose  EventType = "CANNOT_CHOOSE"
	EventPhaseChanged  EventType = "PHASE_CHANGED"
	EventGameDone      EventType = "GAME_DONE"
)

// GameEvent is one broadcastable occurrence in a room. UserKey, when
// set, restricts delivery to that user.
type GameEvent struct {
	Type      EventType   `json:"type"`
	RoomKey   string      `json:"roomKey"`
	UserKey   string      `json:"userKey,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide game event
func NewEvent(eventType EventType, roomKey string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		RoomKey:   roomKey,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewUserEvent creates a game event for a single recipient
func NewUserEvent(eventType EventType, roomKey, userKey string, payload interface{}) *GameEvent {
	e := NewEvent(eventType, roomKey, payload)
	e.UserKey = userKey
	return e
}

// Payload types for different events

// MemberChangedPayload is sent when the roster changes
type MemberChangedPayload struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Users []UserChoiceInfo `json:"users"`
}

// ChoiceChangedPayload is sent when a choice is accepted
type ChoiceChangedPayload struct {
	User   string     `json:"user"`
	Choice ChoiceInfo `json:"choice"`
}

// CannotChoosePayload is sent to a user whose choice was rejected
type CannotChoosePayload struct {
	User   string `json:"user"`
	Target string `json:"target"`
}

// PhaseResultPayload carries the per-recipient view of a phase's
// outcome. Which fields are set depends on the phase that just ended
// and on what the recipient is allowed to see.
type PhaseResultPayload struct {
	// after the waiting phase: the recipient's role and known teammates
	Job       string     `json:"job,omitempty"`
	TeamMates []UserInfo `json:"team_mates,omitempty"`
	// after an election that executed someone
	Victim *UserInfo `json:"victim,omitempty"`
	// after night: act results within the recipient's scope
	ActList []ActResultInfo `json:"act_list,omitempty"`
	// when the new phase is night: targets the recipient may act on
	Targets []UserInfo `json:"targets,omitempty"`
}

// PhaseChangedPayload is sent to each user when the room advances
type PhaseChangedPayload struct {
	PrevPhase int                `json:"prev_status"`
	Phase     int                `json:"status"`
	Result    PhaseResultPayload `json:"result"`
}

// GameDonePayload announces the winning faction
type GameDonePayload struct {
	Winner Group `json:"result"`
}
