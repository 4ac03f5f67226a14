package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookingflow/internal/booking/core"
	bookingerrors "bookingflow/internal/booking/errors"
	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/calendar"
	"bookingflow/pkg/client"
	"bookingflow/pkg/config"
	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAvailability struct{}

func (stubAvailability) FetchService(_ context.Context, creatorID, serviceID string) client.Result[client.ServiceLookup] {
	if serviceID == "missing" {
		return client.Fail[client.ServiceLookup](client.FailureNotFound, "Service not found")
	}
	return client.Ok(client.ServiceLookup{
		Service: model.ServiceInfo{ID: serviceID, Title: "Intro call", DurationMinutes: 30},
		Creator: model.CreatorInfo{ID: creatorID, Name: "Alice"},
	})
}

func (stubAvailability) FetchAvailableDates(_ context.Context, _, _ string, month calendar.Month) client.Result[client.MonthAvailability] {
	return client.Ok(client.MonthAvailability{Month: month, Dates: calendar.NewDateSet("2025-06-10")})
}

func (stubAvailability) FetchSlots(_ context.Context, _, date, _ string) client.Result[client.DaySlots] {
	return client.Ok(client.DaySlots{Date: date, Slots: []model.Slot{{StartTime: "09:00", EndTime: "09:30", Available: true}}})
}

type stubReservation struct {
	result client.Result[model.BookingConfirmation]
}

func (s stubReservation) Reserve(context.Context, model.ReservationRequest) client.Result[model.BookingConfirmation] {
	return s.result
}

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*model.BookingRecord
	saveErr error
}

func (m *memoryStore) Save(_ context.Context, record *model.BookingRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]*model.BookingRecord{}
	}
	m.records[record.ID] = record
	return nil
}

func (m *memoryStore) FindByID(_ context.Context, id string) (*model.BookingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, bookingerrors.ErrConfirmationNotFound
}

type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []*model.BookingRecord
	failed    []*model.BookingFailure
	err       error
}

func (p *recordingPublisher) PublishConfirmed(_ context.Context, r *model.BookingRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, r)
	return p.err
}

func (p *recordingPublisher) PublishFailed(_ context.Context, f *model.BookingFailure) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = append(p.failed, f)
	return p.err
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:             10 * time.Minute,
		SessionCleanupInterval: time.Hour,
		Location:               time.UTC,
		Log:                    logger.Discard(),
	}
}

type fixture struct {
	svc       SessionService
	store     *memoryStore
	publisher *recordingPublisher
	clock     *manualClock
}

func newFixture(t *testing.T, reserve client.Result[model.BookingConfirmation]) *fixture {
	t.Helper()
	f := &fixture{
		store:     &memoryStore{},
		publisher: &recordingPublisher{},
		clock:     &manualClock{now: time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)},
	}
	f.svc = NewSessionService(
		stubAvailability{},
		stubReservation{result: reserve},
		validator.NewContactValidator("US"),
		f.store,
		f.publisher,
		testConfig(),
		f.clock,
	)
	t.Cleanup(f.svc.Stop)
	return f
}

func driveToForm(t *testing.T, svc SessionService, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SelectDate(ctx, id, "2025-06-10")
	require.NoError(t, err)
	_, err = svc.SelectSlot(id, model.Slot{StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)
}

func TestCreate_InitializesController(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))

	session, err := f.svc.Create(context.Background(), "alice", "svc1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, core.StateSelectDate, session.Controller.State())
	assert.Equal(t, 1, f.svc.Count())

	got, err := f.svc.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)
}

func TestCreate_ErrorStateIsStillASession(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))

	session, err := f.svc.Create(context.Background(), "alice", "missing")
	require.NoError(t, err)

	snap := session.Controller.Snapshot()
	assert.Equal(t, core.StateError, snap.State)
	assert.Equal(t, "Service not found", snap.ErrorMessage)
}

func TestGet_UnknownAndExpired(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))

	_, err := f.svc.Get("nope")
	assert.ErrorIs(t, err, bookingerrors.ErrSessionNotFound)

	session, err := f.svc.Create(context.Background(), "alice", "svc1")
	require.NoError(t, err)

	f.clock.Advance(9 * time.Minute)
	_, err = f.svc.Get(session.ID)
	require.NoError(t, err, "activity within the TTL keeps the session")

	f.clock.Advance(11 * time.Minute)
	_, err = f.svc.Get(session.ID)
	assert.ErrorIs(t, err, bookingerrors.ErrSessionNotFound)
	assert.Zero(t, f.svc.Count())
}

func TestEvictExpired(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	f.clock.Advance(11 * time.Minute)
	_, err = f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)

	evicted := f.svc.(*sessionService).evictExpired()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, f.svc.Count())
}

func TestSubmit_ConfirmedIsArchivedAndPublished(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{
		ID:         "bk_9",
		Date:       "2025-06-10",
		StartTime:  "09:00",
		EndTime:    "09:30",
		MeetingURL: model.MeetingLinkPending,
	}))
	ctx := context.Background()

	session, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	driveToForm(t, f.svc, session.ID)

	_, err = f.svc.Submit(ctx, session.ID, validator.ContactForm{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	record, err := f.svc.Confirmation(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, record.SessionID)
	assert.Equal(t, "alice", record.CreatorID)
	assert.Equal(t, "svc1", record.ServiceID)
	assert.Equal(t, "Bob", record.Name)
	assert.Equal(t, model.MeetingLinkPending, record.MeetingURL)

	require.Len(t, f.publisher.confirmed, 1)
	assert.Equal(t, "bk_9", f.publisher.confirmed[0].ID)
	assert.Empty(t, f.publisher.failed)
}

func TestSubmit_RejectionIsPublished(t *testing.T) {
	f := newFixture(t, client.Fail[model.BookingConfirmation](client.FailureRejected, "Slot no longer available"))
	ctx := context.Background()

	session, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	driveToForm(t, f.svc, session.ID)

	_, err = f.svc.Submit(ctx, session.ID, validator.ContactForm{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	require.Len(t, f.publisher.failed, 1)
	failure := f.publisher.failed[0]
	assert.Equal(t, "Slot no longer available", failure.Reason)
	assert.Equal(t, "2025-06-10", failure.Date)
	assert.Equal(t, "09:00", failure.StartTime)
	assert.Empty(t, f.store.records)
}

func TestSubmit_SideEffectFailuresDoNotChangeState(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))
	f.store.saveErr = errors.New("mongo down")
	f.publisher.err = errors.New("kafka down")
	ctx := context.Background()

	session, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	driveToForm(t, f.svc, session.ID)

	_, err = f.svc.Submit(ctx, session.ID, validator.ContactForm{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, core.StateConfirmed, session.Controller.State())
}

func TestSubmit_ValidationErrorHasNoSideEffects(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1"}))
	ctx := context.Background()

	session, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	driveToForm(t, f.svc, session.ID)

	_, err = f.svc.Submit(ctx, session.ID, validator.ContactForm{Name: "Bob"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	assert.Empty(t, f.publisher.confirmed)
	assert.Empty(t, f.publisher.failed)
}

func TestConfirmation_ArchiveDisabled(t *testing.T) {
	svc := NewSessionService(stubAvailability{}, stubReservation{}, validator.NewContactValidator("US"), nil, nil, testConfig(), nil)
	defer svc.Stop()

	session, err := svc.Create(context.Background(), "alice", "svc1")
	require.NoError(t, err)

	_, err = svc.Confirmation(context.Background(), session.ID)
	assert.ErrorIs(t, err, bookingerrors.ErrArchiveDisabled)
}

func TestConfirmation_ScopedToSession(t *testing.T) {
	f := newFixture(t, client.Ok(model.BookingConfirmation{ID: "bk_1", Date: "2025-06-10"}))
	ctx := context.Background()

	booked, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)
	driveToForm(t, f.svc, booked.ID)
	_, err = f.svc.Submit(ctx, booked.ID, validator.ContactForm{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	other, err := f.svc.Create(ctx, "alice", "svc1")
	require.NoError(t, err)

	t.Run("own booking", func(t *testing.T) {
		record, err := f.svc.Confirmation(ctx, booked.ID)
		require.NoError(t, err)
		assert.Equal(t, "bk_1", record.ID)
	})

	t.Run("session without booking", func(t *testing.T) {
		_, err := f.svc.Confirmation(ctx, other.ID)
		assert.ErrorIs(t, err, bookingerrors.ErrConfirmationNotFound)
	})

	t.Run("booking id is not a session id", func(t *testing.T) {
		_, err := f.svc.Confirmation(ctx, "bk_1")
		assert.ErrorIs(t, err, bookingerrors.ErrSessionNotFound)
	})

	t.Run("record archived by another session", func(t *testing.T) {
		f.store.mu.Lock()
		foreign := *f.store.records["bk_1"]
		foreign.SessionID = other.ID
		f.store.records["bk_1"] = &foreign
		f.store.mu.Unlock()

		_, err := f.svc.Confirmation(ctx, booked.ID)
		assert.ErrorIs(t, err, bookingerrors.ErrConfirmationNotFound)
	})
}

func TestStop_IsIdempotent(t *testing.T) {
	svc := NewSessionService(stubAvailability{}, stubReservation{}, validator.NewContactValidator("US"), nil, nil, testConfig(), nil)
	svc.Stop()
	svc.Stop()
}
