package model

import "time"

type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionTerminated SessionStatus = "terminated"
)

// TerminationReason explains why a session stopped accepting input.
type TerminationReason string

const (
	ReasonNone            TerminationReason = ""
	ReasonDeclinedConsent TerminationReason = "declined-consent"
	ReasonSubmitted       TerminationReason = "submitted"
)

// Progress is the restorable part of a wizard: the response state plus the
// position index into the current plan.
type Progress struct {
	State    ResponseState     `json:"state" bson:"state"`
	Position int               `json:"position" bson:"position"`
	Status   SessionStatus     `json:"status" bson:"status"`
	Reason   TerminationReason `json:"reason,omitempty" bson:"reason,omitempty"`
}

// Session is an in-progress questionnaire kept between HTTP requests.
type Session struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	CatalogID string     `json:"catalogId" bson:"catalogId"`
	Progress  Progress   `json:"progress" bson:"progress"`
	StartedAt time.Time  `json:"startedAt" bson:"startedAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}
