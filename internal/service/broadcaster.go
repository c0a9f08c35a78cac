package service

// Broadcaster pushes session events to live observers (avoids import cycle
// with the websocket transport).
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

// Event types pushed to observers of a session.
const (
	EventStepChanged       = "step_changed"
	EventValidationFailed  = "validation_failed"
	EventSessionTerminated = "session_terminated"
	EventSubmitFailed      = "submit_failed"
)
