package core

import (
	"time"

	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/calendar"
	"bookingflow/pkg/model"
)

// Snapshot is a consistent, detached copy of a controller's state.
type Snapshot struct {
	State   State
	Service *model.ServiceInfo
	Creator *model.CreatorInfo

	Month          calendar.Month
	AvailableDates calendar.DateSet
	ActiveWeekdays []int
	MonthLoading   bool

	SelectedDate string
	Slots        []model.Slot
	SlotsLoading bool

	Draft        *Draft
	FormErrors   validator.ValidationErrors
	ErrorMessage string
	Confirmation *model.BookingConfirmation

	Today time.Time
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:          c.state,
		Month:          c.month,
		AvailableDates: c.available.Clone(),
		ActiveWeekdays: append([]int(nil), c.activeWeekdays...),
		MonthLoading:   c.monthLoading,
		SelectedDate:   c.selectedDate,
		Slots:          append([]model.Slot{}, c.slots...),
		SlotsLoading:   c.slotsLoading,
		FormErrors:     append(validator.ValidationErrors(nil), c.formErrors...),
		ErrorMessage:   c.errMessage,
		Today:          c.clock.Now(),
	}
	if c.service != nil {
		svc := *c.service
		s.Service = &svc
	}
	if c.creator != nil {
		cr := *c.creator
		s.Creator = &cr
	}
	if c.draft != nil {
		d := *c.draft
		s.Draft = &d
	}
	if c.confirmation != nil {
		conf := *c.confirmation
		s.Confirmation = &conf
	}
	return s
}

// Grid is the calendar of the browsed month.
func (s Snapshot) Grid() []calendar.Cell {
	return calendar.BuildGrid(s.Month.Month, s.Month.Year, s.Today, s.AvailableDates)
}

// SelectableSlots are the loaded slots the visitor may pick.
func (s Snapshot) SelectableSlots() []model.Slot {
	out := make([]model.Slot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.Available {
			out = append(out, slot)
		}
	}
	return out
}

// FormError is the first validation message, empty when the form is clean.
func (s Snapshot) FormError() string {
	if len(s.FormErrors) == 0 {
		return ""
	}
	return s.FormErrors.First()
}
