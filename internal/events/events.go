package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the audit trail entries this service emits.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLogin      EventType = "user_login"
	EventLoginFailed    EventType = "user_login_failed"
	EventAuthRejected   EventType = "auth_rejected"
	EventChatQuestion   EventType = "chat_question"
)

// AllTypes lists every event type, in emission-source order.
var AllTypes = []EventType{
	EventUserRegistered,
	EventUserLogin,
	EventLoginFailed,
	EventAuthRejected,
	EventChatQuestion,
}

// Event is an audit record emitted by services. SubjectID is uuid.Nil when
// no account was resolved (e.g. a failed login for an unknown email).
type Event struct {
	Type       EventType         `json:"type"`
	SubjectID  uuid.UUID         `json:"subject_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Detail     map[string]string `json:"detail,omitempty"`
}

// New builds an event stamped with the current time.
func New(eventType EventType, subjectID uuid.UUID, detail map[string]string) Event {
	return Event{
		Type:       eventType,
		SubjectID:  subjectID,
		OccurredAt: time.Now(),
		Detail:     detail,
	}
}
