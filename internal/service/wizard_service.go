package service

import (
	"bemestar/internal/cache"
	"bemestar/internal/catalog"
	"bemestar/internal/model"
	"bemestar/internal/platform/logger"
	"bemestar/internal/wizard"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSubmitTimeout bounds one sink call unless SetSubmitTimeout says otherwise.
const DefaultSubmitTimeout = 20 * time.Second

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is being updated by another request")
)

// SessionView is what clients receive after every operation.
type SessionView struct {
	SessionID string     `json:"sessionId"`
	Step      model.View `json:"step"`
}

// WizardService runs questionnaire sessions whose progress lives in the
// session cache between requests.
type WizardService struct {
	catalog       *catalog.Catalog
	sessions      cache.SessionCache
	sink          wizard.Sink
	schemaVersion string
	log           *logger.Logger
	broadcaster   Broadcaster
	now           func() time.Time
	submitTimeout time.Duration
}

// NewWizardService creates a wizard service.
func NewWizardService(
	cat *catalog.Catalog,
	sessions cache.SessionCache,
	sink wizard.Sink,
	schemaVersion string,
	log *logger.Logger,
) *WizardService {
	if log == nil {
		log = logger.Nop()
	}
	return &WizardService{
		catalog:       cat,
		sessions:      sessions,
		sink:          sink,
		schemaVersion: schemaVersion,
		log:           log.With("service", "WizardService"),
		now:           time.Now,
		submitTimeout: DefaultSubmitTimeout,
	}
}

// SetSubmitTimeout bounds how long the sink may take for one submission.
func (s *WizardService) SetSubmitTimeout(d time.Duration) {
	if d > 0 {
		s.submitTimeout = d
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *WizardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Catalog returns the questionnaire sessions are started on.
func (s *WizardService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Start opens a new session at the first step.
func (s *WizardService) Start(ctx context.Context) (*SessionView, error) {
	ctrl := s.controller(model.Progress{Status: model.SessionActive})
	now := s.now()
	session := &model.Session{
		ID:        uuid.New().String(),
		CatalogID: s.catalog.ID(),
		Progress:  ctrl.Snapshot(),
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.log.Info("session started", "session_id", session.ID, "catalog", session.CatalogID)
	return &SessionView{SessionID: session.ID, Step: ctrl.Current()}, nil
}

// Current returns the step a session is on.
func (s *WizardService) Current(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctrl := s.controller(session.Progress)
	return &SessionView{SessionID: id, Step: ctrl.Current()}, nil
}

// Answer submits input for the current step.
func (s *WizardService) Answer(ctx context.Context, id string, in model.Input) (*SessionView, error) {
	return s.apply(ctx, id, func(_ context.Context, ctrl *wizard.Controller) error {
		return ctrl.Advance(in)
	})
}

// Back moves a session one step back.
func (s *WizardService) Back(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, func(_ context.Context, ctrl *wizard.Controller) error {
		return ctrl.Retreat()
	})
}

// Submit hands the session's payload to the sink. It is only valid on the
// review step.
func (s *WizardService) Submit(ctx context.Context, id string) (*SessionView, error) {
	return s.apply(ctx, id, func(ctx context.Context, ctrl *wizard.Controller) error {
		ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
		_, err := ctrl.Submit(ctx)
		return err
	})
}

// Handle applies a presentation event.
func (s *WizardService) Handle(ctx context.Context, id string, ev model.Event) (*SessionView, error) {
	switch ev.Type {
	case model.EventAnswer:
		return s.Answer(ctx, id, ev.Input)
	case model.EventBack:
		return s.Back(ctx, id)
	case model.EventSubmit:
		return s.Submit(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", wizard.ErrUnknownEvent, ev.Type)
	}
}

// apply runs op on a restored controller while holding the session lock, then
// stores the resulting progress. The lock is extended for as long as op runs
// and op's context is cancelled if it is lost. The view is returned alongside
// op's error so callers can show where the session stands.
func (s *WizardService) apply(ctx context.Context, id string, op func(context.Context, *wizard.Controller) error) (*SessionView, error) {
	token, locked, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	if !locked {
		return nil, ErrSessionBusy
	}
	opCtx, release := s.holdLock(ctx, id, token)
	defer func() {
		release()
		if err := s.sessions.Unlock(context.WithoutCancel(ctx), id, token); err != nil {
			s.log.Warn("failed to unlock session", "session_id", id, "error", err)
		}
	}()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ctrl := s.controller(session.Progress)
	wasActive := session.Progress.Status == model.SessionActive
	opErr := op(opCtx, ctrl)

	session.Progress = ctrl.Snapshot()
	session.UpdatedAt = s.now()
	if session.Progress.Status == model.SessionTerminated && session.EndedAt == nil {
		ended := session.UpdatedAt
		session.EndedAt = &ended
	}
	delivered := wasActive && opErr == nil && session.Progress.Reason == model.ReasonSubmitted
	if err := s.save(ctx, session, delivered); err != nil && !delivered {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	view := &SessionView{SessionID: id, Step: ctrl.Current()}
	s.notify(id, view, opErr)
	return view, opErr
}

// holdLock extends the session lock every third of its TTL until release is
// called. The returned context is cancelled when an extension fails.
func (s *WizardService) holdLock(ctx context.Context, id, token string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	ttl := s.sessions.LockTTL()
	if ttl <= 0 {
		return ctx, cancel
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok, err := s.sessions.Extend(ctx, id, token)
				if err == nil && ok {
					continue
				}
				s.log.Error("lost session lock", "session_id", id, "error", err)
				cancel()
				return
			}
		}
	}()
	return ctx, func() {
		close(done)
		wg.Wait()
		cancel()
	}
}

// save stores session. Once a payload has been delivered the session must be
// stored as submitted or a retry would deliver it again, so a failed save is
// retried detached from the request before giving up.
func (s *WizardService) save(ctx context.Context, session *model.Session, delivered bool) error {
	err := s.sessions.Set(ctx, session)
	if err == nil || !delivered {
		return err
	}
	s.log.Error("failed to mark session submitted, retrying", "session_id", session.ID, "error", err)
	if err = s.sessions.Set(context.WithoutCancel(ctx), session); err != nil {
		s.log.Error("payload delivered but session still stored as active", "session_id", session.ID, "error", err)
	}
	return err
}

func (s *WizardService) notify(id string, view *SessionView, opErr error) {
	var perr *wizard.PersistenceError
	switch {
	case opErr == nil && view.Step.Status == model.SessionTerminated:
		s.log.Info("session terminated", "session_id", id, "reason", view.Step.Reason)
		s.broadcast(id, EventSessionTerminated, view)
	case opErr == nil:
		s.broadcast(id, EventStepChanged, view)
	case errors.As(opErr, &perr):
		s.log.Error("submit failed", "session_id", id, "error", perr.Err)
		s.broadcast(id, EventSubmitFailed, map[string]interface{}{
			"message": perr.UserMessage(),
			"step":    view.Step,
		})
	default:
		if verr, ok := wizard.IsValidation(opErr); ok {
			s.broadcast(id, EventValidationFailed, verr)
		}
	}
}

func (s *WizardService) broadcast(id, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, msgType, payload)
	}
}

func (s *WizardService) load(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.CatalogID != s.catalog.ID() {
		s.log.Warn("session started on another catalog", "session_id", id, "catalog", session.CatalogID)
	}
	return session, nil
}

func (s *WizardService) controller(p model.Progress) *wizard.Controller {
	return wizard.Restore(s.catalog, s.sink, p,
		wizard.WithSchemaVersion(s.schemaVersion),
		wizard.WithLogger(s.log),
		wizard.WithClock(s.now),
	)
}
