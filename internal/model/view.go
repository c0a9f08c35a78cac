package model

// EventType is what the presentation layer reports for the shown step.
type EventType string

const (
	EventAnswer EventType = "answer"
	EventBack   EventType = "back"
	EventSubmit EventType = "submit"
)

// Input is raw user input for one step. Value carries single choices,
// numbers (as typed) and text; Values carries multi-choice selections.
type Input struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Event is exactly one user action on the current step.
type Event struct {
	Type  EventType `json:"type"`
	Input Input     `json:"input"`
}

// View describes the current step for rendering.
type View struct {
	StepID      string            `json:"stepId"`
	QuestionKey string            `json:"questionKey"`
	Entity      string            `json:"entity,omitempty"`
	Kind        Kind              `json:"kind"`
	Title       string            `json:"title"`
	Required    bool              `json:"required"`
	Options     []Option          `json:"options,omitempty"`
	Min         *float64          `json:"min,omitempty"`
	Max         *float64          `json:"max,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Body        string            `json:"body,omitempty"`
	Position    int               `json:"position"` // zero-based
	Total       int               `json:"total"`
	CanRetreat  bool              `json:"canRetreat"`
	Current     *Input            `json:"current,omitempty"`
	Review      *ReviewSummary    `json:"review,omitempty"`
	Status      SessionStatus     `json:"status"`
	Reason      TerminationReason `json:"reason,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// ReviewSummary is what the review step shows before submission.
type ReviewSummary struct {
	Gender   string   `json:"gender"`
	Age      string   `json:"age"`
	Role     string   `json:"role"`
	Entities []string `json:"entities"` // labels, in selection order
}
