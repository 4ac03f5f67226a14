package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/calendar"
	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"

	"github.com/google/uuid"
)

type Options struct {
	CreatorID string
	ServiceID string

	Availability AvailabilityGateway
	Reservation  ReservationGateway
	Validator    ContactValidator
	Clock        Clock
	Log          *logger.Logger

	// NewIdempotencyKey defaults to a random UUID.
	NewIdempotencyKey func() string
}

// Controller is the booking flow of one visitor. All methods are safe for
// concurrent use; gateway calls run without holding the lock, and every read
// is tagged with a sequence number so a late response for a month or date the
// visitor already left is dropped.
type Controller struct {
	mu sync.Mutex

	creatorID string
	serviceID string

	availability AvailabilityGateway
	reservation  ReservationGateway
	validator    ContactValidator
	clock        Clock
	log          *logger.Logger
	newKey       func() string

	initialized bool
	state       State
	service     *model.ServiceInfo
	creator     *model.CreatorInfo

	month          calendar.Month
	available      calendar.DateSet
	activeWeekdays []int
	monthSeq       uint64
	monthLoading   bool

	selectedDate string
	slots        []model.Slot
	dateSeq      uint64
	slotsLoading bool

	draft        *Draft
	formErrors   validator.ValidationErrors
	errMessage   string
	confirmation *model.BookingConfirmation
}

func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock(nil)
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.NewIdempotencyKey == nil {
		opts.NewIdempotencyKey = uuid.NewString
	}
	if opts.Validator == nil {
		opts.Validator = validator.NewContactValidator("")
	}

	return &Controller{
		creatorID:    strings.TrimSpace(opts.CreatorID),
		serviceID:    strings.TrimSpace(opts.ServiceID),
		availability: opts.Availability,
		reservation:  opts.Reservation,
		validator:    opts.Validator,
		clock:        opts.Clock,
		log:          opts.Log,
		newKey:       opts.NewIdempotencyKey,
		state:        StateLoading,
		available:    calendar.NewDateSet(),
		slots:        []model.Slot{},
	}
}

// Initialize runs the loading entry action: service lookup, then the current
// month's availability. It may be called once.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized || c.state != StateLoading {
		state := c.state
		c.mu.Unlock()
		return illegal("Initialize", state)
	}
	c.initialized = true
	current := calendar.MonthOf(c.clock.Now())
	c.month = current
	c.monthSeq++
	seq := c.monthSeq
	c.monthLoading = true
	c.mu.Unlock()

	var lookupService *model.ServiceInfo
	var lookupCreator *model.CreatorInfo

	err := runSteps(ctx,
		NewStep("validateIdentifiers", func(ctx context.Context) error {
			if c.creatorID == "" || c.serviceID == "" {
				return ErrMissingIdentifiers
			}
			return nil
		}),
		NewStep("loadService", func(ctx context.Context) error {
			res := c.availability.FetchService(ctx, c.creatorID, c.serviceID)
			lookup, ok := res.Value()
			if !ok {
				return &loadError{message: res.ReasonOr(MessageLoadFailed)}
			}
			lookupService = &lookup.Service
			lookupCreator = &lookup.Creator
			return nil
		}),
		NewStep("loadMonthAvailability", func(ctx context.Context) error {
			c.fetchMonth(ctx, current, seq)
			return nil
		}),
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Warn("booking flow failed to load",
			"creator_id", c.creatorID,
			"service_id", c.serviceID,
			"error", err,
		)
		c.enterError(visitorMessage(err))
		if errors.Is(err, ErrMissingIdentifiers) {
			return ErrMissingIdentifiers
		}
		return nil
	}

	c.service = lookupService
	c.creator = lookupCreator
	c.state = StateSelectDate
	c.log.Info("booking flow ready",
		"creator_id", c.creatorID,
		"service_id", c.serviceID,
		"month", current.String(),
		"available_dates", c.available.Len(),
	)
	return nil
}

// ChangeMonth moves the browsed month by one and refetches its availability.
// A failed fetch keeps the previous date set; selections are left untouched.
func (c *Controller) ChangeMonth(ctx context.Context, dir Direction) error {
	c.mu.Lock()
	if c.state != StateSelectDate {
		state := c.state
		c.mu.Unlock()
		return illegal("ChangeMonth", state)
	}
	target := c.month.Shift(dir.delta())
	c.month = target
	c.monthSeq++
	seq := c.monthSeq
	c.monthLoading = true
	c.mu.Unlock()

	c.fetchMonth(ctx, target, seq)
	return nil
}

// fetchMonth loads availability for month and applies it only if seq is
// still the latest month request. Callers bump monthSeq and raise
// monthLoading under the same lock.
func (c *Controller) fetchMonth(ctx context.Context, month calendar.Month, seq uint64) {
	res := c.availability.FetchAvailableDates(ctx, c.creatorID, c.serviceID, month)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.monthSeq {
		c.log.Debug("dropping stale month availability",
			"month", month.String(),
			"current_month", c.month.String(),
		)
		return
	}
	c.monthLoading = false

	avail, ok := res.Value()
	if !ok {
		c.log.Warn("month availability unavailable, keeping previous dates",
			"month", month.String(),
			"kind", res.Kind(),
			"reason", res.Reason(),
		)
		return
	}

	c.available = avail.Dates
	c.activeWeekdays = avail.ActiveWeekdays
}

// SelectDate picks an available, non-past date of the browsed month and loads
// its slots. Any previously picked slot is discarded. A failed slot fetch
// leaves an empty list.
func (c *Controller) SelectDate(ctx context.Context, date string) error {
	c.mu.Lock()
	if c.state != StateSelectDate {
		state := c.state
		c.mu.Unlock()
		return illegal("SelectDate", state)
	}
	if !c.month.Contains(date) || !c.available.Has(date) {
		c.mu.Unlock()
		return ErrDateNotSelectable
	}
	past, err := calendar.IsPast(date, c.clock.Now())
	if err != nil || past {
		c.mu.Unlock()
		return ErrDateNotSelectable
	}

	c.selectedDate = date
	c.slots = []model.Slot{}
	c.draft = nil
	c.dateSeq++
	seq := c.dateSeq
	c.slotsLoading = true
	c.mu.Unlock()

	res := c.availability.FetchSlots(ctx, c.creatorID, date, c.serviceID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.dateSeq {
		c.log.Debug("dropping stale slots", "date", date, "current_date", c.selectedDate)
		return nil
	}
	c.slotsLoading = false

	day, ok := res.Value()
	if !ok {
		c.log.Warn("slots unavailable, showing none",
			"date", date,
			"kind", res.Kind(),
			"reason", res.Reason(),
		)
		return nil
	}
	c.slots = day.Slots
	return nil
}

// SelectSlot commits a slot from the loaded list of the selected date and
// moves to the contact form. Availability is read from the loaded list, not
// from the argument.
func (c *Controller) SelectSlot(slot model.Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSelectDate {
		return illegal("SelectSlot", c.state)
	}
	if c.selectedDate == "" || c.slotsLoading {
		return ErrSlotNotSelectable
	}

	for _, loaded := range c.slots {
		if !loaded.SameInterval(slot) {
			continue
		}
		if !loaded.Available {
			return ErrSlotNotSelectable
		}
		c.draft = &Draft{Date: c.selectedDate, Slot: loaded}
		c.formErrors = nil
		c.state = StateForm
		c.log.Debug("slot selected", "date", c.selectedDate, "start_time", loaded.StartTime)
		return nil
	}

	return ErrSlotNotSelectable
}

// GoBack leaves the form for the date picker. The selected date and its
// slots stay; the draft with its slot and contact fields is dropped.
func (c *Controller) GoBack() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateForm {
		return illegal("GoBack", c.state)
	}
	c.draft = nil
	c.formErrors = nil
	c.state = StateSelectDate
	return nil
}

// SubmitForm validates the contact details and, when they pass, issues the
// reservation. Validation failures return validator.ValidationErrors and keep
// the flow in the form without any network call. Every reservation outcome is
// reflected in the state, so a nil error does not mean the booking succeeded.
func (c *Controller) SubmitForm(ctx context.Context, form validator.ContactForm) error {
	c.mu.Lock()
	if c.state != StateForm || c.draft == nil {
		state := c.state
		c.mu.Unlock()
		return illegal("SubmitForm", state)
	}

	normalized := c.validator.Normalize(form)
	c.draft.setContact(normalized)

	if err := c.validator.Validate(normalized); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.formErrors = verrs
		}
		c.mu.Unlock()
		return err
	}

	c.formErrors = nil
	if c.draft.IdempotencyKey == "" {
		c.draft.IdempotencyKey = c.newKey()
	}
	req := c.draft.reservation(c.creatorID, c.serviceID)
	c.state = StateConfirming
	c.mu.Unlock()

	c.log.Info("submitting reservation",
		"creator_id", req.CreatorID,
		"service_id", req.ServiceID,
		"date", req.Date,
		"start_time", req.StartTime,
		"idempotency_key", req.IdempotencyKey,
	)

	// A reservation that was sent is never cancelled.
	res := c.reservation.Reserve(context.WithoutCancel(ctx), req)

	c.mu.Lock()
	defer c.mu.Unlock()

	conf, ok := res.Value()
	if !ok {
		c.log.Warn("reservation failed",
			"kind", res.Kind(),
			"reason", res.Reason(),
			"idempotency_key", req.IdempotencyKey,
		)
		c.enterError(res.ReasonOr(MessageSubmitFailed))
		return nil
	}

	c.confirmation = &conf
	c.state = StateConfirmed
	c.log.Info("booking confirmed", "booking_id", conf.ID)
	return nil
}

func (c *Controller) enterError(message string) {
	c.errMessage = message
	c.state = StateError
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Now() time.Time {
	return c.clock.Now()
}
