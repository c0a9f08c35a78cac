// Package wizard drives one respondent through a planned questionnaire:
// it validates and commits input step by step, moves back and forth, and
// hands the finished payload to a sink.
package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bemestar/internal/catalog"
	"bemestar/internal/model"
	"bemestar/internal/planner"
	"bemestar/internal/platform/logger"
)

// DefaultSchemaVersion tags payloads when neither the catalog nor the caller
// names a version.
const DefaultSchemaVersion = "1q-per-page-v2"

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for payload timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSchemaVersion overrides the schema version written into payloads.
func WithSchemaVersion(v string) Option {
	return func(c *Controller) {
		if v != "" {
			c.schemaVersion = v
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller is the state machine for one session. It starts Active at
// position 0 and ends Terminated, either by a consent decline or by a
// successful submit. Methods are safe for concurrent use; a Submit in
// flight blocks every other transition.
type Controller struct {
	cat           *catalog.Catalog
	sink          Sink
	now           func() time.Time
	schemaVersion string
	log           *logger.Logger

	mu         sync.Mutex
	state      *model.ResponseState
	plan       planner.Plan
	position   int
	status     model.SessionStatus
	reason     model.TerminationReason
	submitting bool
}

// New starts a fresh session over cat.
func New(cat *catalog.Catalog, sink Sink, opts ...Option) *Controller {
	return Restore(cat, sink, model.Progress{Status: model.SessionActive}, opts...)
}

// Restore resumes a session from a snapshot. The position is clamped into
// the plan derived from the restored state.
func Restore(cat *catalog.Catalog, sink Sink, p model.Progress, opts ...Option) *Controller {
	c := &Controller{
		cat:           cat,
		sink:          sink,
		now:           time.Now,
		schemaVersion: cat.SchemaVersion(),
		log:           logger.Nop(),
		state:         p.State.Clone(),
		position:      p.Position,
		status:        p.Status,
		reason:        p.Reason,
	}
	if c.schemaVersion == "" {
		c.schemaVersion = DefaultSchemaVersion
	}
	if c.status == "" {
		c.status = model.SessionActive
	}
	// Snapshots may come from outside SetEntities.
	c.state.SetEntities(c.state.SelectedEntities)
	for _, opt := range opts {
		opt(c)
	}
	c.replan()
	return c
}

// Snapshot returns a copy of the restorable progress.
func (c *Controller) Snapshot() model.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.Progress{
		State:    *c.state.Clone(),
		Position: c.position,
		Status:   c.status,
		Reason:   c.reason,
	}
}

// State returns a copy of the response state.
func (c *Controller) State() *model.ResponseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Plan returns the plan for the current state.
func (c *Controller) Plan() planner.Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

func (c *Controller) Status() (model.SessionStatus, model.TerminationReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.reason
}

// Current describes the step at the current position.
func (c *Controller) Current() model.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Advance validates and commits in for the current step, then replans and
// moves forward. Nothing changes when an error is returned.
func (c *Controller) Advance(in model.Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	step, _ := c.plan.At(c.position)
	commit, err := prepare(step, in)
	if err != nil {
		c.log.Debug("advance rejected", "step", step.ID(), "error", err)
		return err
	}
	commit(c.state)
	c.replan()
	if c.state.Consent == model.ConsentDeclined {
		c.terminate(model.ReasonDeclinedConsent)
		return nil
	}
	c.position = planner.Clamp(c.position+1, c.plan.Len())
	return nil
}

// Retreat moves one step back. It is a no-op on the first step.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkActive(); err != nil {
		return err
	}
	c.position = planner.Clamp(c.position-1, c.plan.Len())
	return nil
}

// Submit hands the payload to the sink. It is only accepted on the review
// step and never runs twice concurrently. On failure the controller stays
// on the review step and returns a *PersistenceError.
func (c *Controller) Submit(ctx context.Context) (*model.Payload, error) {
	c.mu.Lock()
	if err := c.checkActive(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if step, _ := c.plan.At(c.position); step.Kind() != model.KindReview {
		c.mu.Unlock()
		return nil, ErrNotAtReview
	}
	payload := AssemblePayload(c.cat, c.state, c.now(), c.schemaVersion)
	c.submitting = true
	c.mu.Unlock()

	err := c.sink.Submit(ctx, &payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warn("submit failed", "error", err)
		return nil, &PersistenceError{Err: err}
	}
	c.terminate(model.ReasonSubmitted)
	return &payload, nil
}

// Handle applies one presentation event.
func (c *Controller) Handle(ctx context.Context, ev model.Event) error {
	switch ev.Type {
	case model.EventAnswer:
		return c.Advance(ev.Input)
	case model.EventBack:
		return c.Retreat()
	case model.EventSubmit:
		_, err := c.Submit(ctx)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
}

func (c *Controller) checkActive() error {
	if c.status == model.SessionTerminated {
		return ErrTerminated
	}
	if c.submitting {
		return ErrSubmitInFlight
	}
	return nil
}

func (c *Controller) terminate(reason model.TerminationReason) {
	c.status = model.SessionTerminated
	c.reason = reason
	c.log.Debug("session terminated", "reason", reason)
}

func (c *Controller) replan() {
	c.plan = planner.Build(c.cat, c.state)
	for _, inc := range c.plan.Inconsistencies {
		c.log.Debug("planner skipped question", "question", inc.QuestionKey, "axis", inc.Axis, "detail", inc.Detail)
	}
	c.position = planner.Clamp(c.position, c.plan.Len())
}
