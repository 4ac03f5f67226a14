package service

import (
	"context"
	"sync"
	"time"

	"bookingflow/internal/booking/core"
	bookingerrors "bookingflow/internal/booking/errors"
	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/config"
	"bookingflow/pkg/model"

	"github.com/google/uuid"
)

// ConfirmationStore archives confirmed bookings.
type ConfirmationStore interface {
	Save(ctx context.Context, record *model.BookingRecord) error
	FindByID(ctx context.Context, bookingID string) (*model.BookingRecord, error)
}

// EventPublisher announces flow outcomes to the rest of the platform.
type EventPublisher interface {
	PublishConfirmed(ctx context.Context, record *model.BookingRecord) error
	PublishFailed(ctx context.Context, failure *model.BookingFailure) error
}

// Session is one visitor's booking flow.
type Session struct {
	ID         string
	CreatorID  string
	ServiceID  string
	CreatedAt  time.Time
	Controller *core.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

type SessionService interface {
	Create(ctx context.Context, creatorID, serviceID string) (*Session, error)
	Get(id string) (*Session, error)
	ChangeMonth(ctx context.Context, id string, dir core.Direction) (*Session, error)
	SelectDate(ctx context.Context, id string, date string) (*Session, error)
	SelectSlot(id string, slot model.Slot) (*Session, error)
	GoBack(id string) (*Session, error)
	Submit(ctx context.Context, id string, form validator.ContactForm) (*Session, error)
	Confirmation(ctx context.Context, id string) (*model.BookingRecord, error)
	Count() int
	Stop()
}

type sessionService struct {
	availability core.AvailabilityGateway
	reservation  core.ReservationGateway
	validator    core.ContactValidator
	store        ConfirmationStore
	publisher    EventPublisher
	cfg          *config.Config
	clock        core.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionService starts the expiry loop. store and publisher may be nil.
func NewSessionService(
	availability core.AvailabilityGateway,
	reservation core.ReservationGateway,
	contactValidator core.ContactValidator,
	store ConfirmationStore,
	publisher EventPublisher,
	cfg *config.Config,
	clock core.Clock,
) SessionService {
	if clock == nil {
		clock = core.SystemClock(cfg.Location)
	}

	s := &sessionService{
		availability: availability,
		reservation:  reservation,
		validator:    contactValidator,
		store:        store,
		publisher:    publisher,
		cfg:          cfg,
		clock:        clock,
		sessions:     make(map[string]*Session),
		stopCh:       make(chan struct{}),
	}

	go s.cleanup()

	return s
}

func (s *sessionService) Create(ctx context.Context, creatorID, serviceID string) (*Session, error) {
	id := uuid.NewString()
	now := s.clock.Now()

	controller := core.NewController(core.Options{
		CreatorID:    creatorID,
		ServiceID:    serviceID,
		Availability: s.availability,
		Reservation:  s.reservation,
		Validator:    s.validator,
		Clock:        s.clock,
		Log:          s.cfg.Log.With("session_id", id),
	})

	session := &Session{
		ID:         id,
		CreatorID:  creatorID,
		ServiceID:  serviceID,
		CreatedAt:  now,
		Controller: controller,
		lastSeen:   now,
	}

	// An error state is still a session the page can render.
	if err := controller.Initialize(ctx); err != nil {
		s.cfg.Log.Warn("Booking session opened in error state",
			"session_id", id,
			"creator_id", creatorID,
			"service_id", serviceID,
			"error", err,
		)
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	s.cfg.Log.Info("Booking session created",
		"session_id", id,
		"creator_id", creatorID,
		"service_id", serviceID,
		"state", controller.State(),
	)
	return session, nil
}

func (s *sessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, bookingerrors.ErrSessionNotFound
	}

	now := s.clock.Now()
	if session.idleSince(now) > s.cfg.SessionTTL {
		s.remove(id)
		return nil, bookingerrors.ErrSessionNotFound
	}

	session.touch(now)
	return session, nil
}

func (s *sessionService) ChangeMonth(ctx context.Context, id string, dir core.Direction) (*Session, error) {
	return s.apply(id, func(c *core.Controller) error {
		return c.ChangeMonth(ctx, dir)
	})
}

func (s *sessionService) SelectDate(ctx context.Context, id string, date string) (*Session, error) {
	return s.apply(id, func(c *core.Controller) error {
		return c.SelectDate(ctx, date)
	})
}

func (s *sessionService) SelectSlot(id string, slot model.Slot) (*Session, error) {
	return s.apply(id, func(c *core.Controller) error {
		return c.SelectSlot(slot)
	})
}

func (s *sessionService) GoBack(id string) (*Session, error) {
	return s.apply(id, func(c *core.Controller) error {
		return c.GoBack()
	})
}

// Submit runs the reservation and reports the terminal outcome. Archive and
// publish failures are logged only; they never change what the visitor sees.
func (s *sessionService) Submit(ctx context.Context, id string, form validator.ContactForm) (*Session, error) {
	session, err := s.apply(id, func(c *core.Controller) error {
		return c.SubmitForm(ctx, form)
	})
	if err != nil {
		return session, err
	}

	snap := session.Controller.Snapshot()
	switch snap.State {
	case core.StateConfirmed:
		s.recordConfirmed(ctx, session, snap)
	case core.StateError:
		s.recordFailed(ctx, session, snap)
	}
	return session, nil
}

// Confirmation returns the archived record of the booking made in session id.
// Records archived by another session are reported as not found.
func (s *sessionService) Confirmation(ctx context.Context, id string) (*model.BookingRecord, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, bookingerrors.ErrArchiveDisabled
	}

	snap := session.Controller.Snapshot()
	if snap.Confirmation == nil {
		return nil, bookingerrors.ErrConfirmationNotFound
	}

	record, err := s.store.FindByID(ctx, snap.Confirmation.ID)
	if err != nil {
		return nil, err
	}
	if record.SessionID != session.ID {
		s.cfg.Log.Warn("archived confirmation belongs to another session",
			"session_id", session.ID,
			"booking_id", record.ID,
		)
		return nil, bookingerrors.ErrConfirmationNotFound
	}
	return record, nil
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *sessionService) apply(id string, op func(c *core.Controller) error) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return session, op(session.Controller)
}

func (s *sessionService) recordConfirmed(ctx context.Context, session *Session, snap core.Snapshot) {
	if snap.Confirmation == nil {
		return
	}
	// The visitor already has a booking; side effects outlive the request.
	ctx = context.WithoutCancel(ctx)

	record := &model.BookingRecord{
		BookingConfirmation: *snap.Confirmation,
		SessionID:           session.ID,
		CreatorID:           session.CreatorID,
		ServiceID:           session.ServiceID,
		ConfirmedAt:         s.clock.Now().UTC(),
	}
	if snap.Draft != nil {
		record.Name = snap.Draft.Name
		record.Email = snap.Draft.Email
		record.Phone = snap.Draft.Phone
	}

	if s.store != nil {
		if err := s.store.Save(ctx, record); err != nil {
			s.cfg.Log.Error("Failed to archive confirmation",
				"session_id", session.ID,
				"booking_id", record.ID,
				"error", err,
			)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishConfirmed(ctx, record); err != nil {
			s.cfg.Log.Error("Failed to publish booking confirmed event",
				"session_id", session.ID,
				"booking_id", record.ID,
				"error", err,
			)
		}
	}
}

func (s *sessionService) recordFailed(ctx context.Context, session *Session, snap core.Snapshot) {
	if s.publisher == nil {
		return
	}

	failure := &model.BookingFailure{
		SessionID:  session.ID,
		CreatorID:  session.CreatorID,
		ServiceID:  session.ServiceID,
		Reason:     snap.ErrorMessage,
		OccurredAt: s.clock.Now().UTC(),
	}
	if snap.Draft != nil {
		failure.Date = snap.Draft.Date
		failure.StartTime = snap.Draft.Slot.StartTime
	}

	if err := s.publisher.PublishFailed(context.WithoutCancel(ctx), failure); err != nil {
		s.cfg.Log.Error("Failed to publish booking failed event",
			"session_id", session.ID,
			"error", err,
		)
	}
}

func (s *sessionService) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *sessionService) cleanup() {
	ticker := time.NewTicker(s.cfg.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopCh:
			return
		}
	}
}

func (s *sessionService) evictExpired() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if session.idleSince(now) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		s.cfg.Log.Debug("Expired booking sessions evicted", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

