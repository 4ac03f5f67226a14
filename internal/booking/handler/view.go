package handler

import (
	"bookingflow/internal/booking/core"
	"bookingflow/internal/booking/service"
	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/calendar"
	"bookingflow/pkg/model"
)

// MeetingNotice replaces the join action when the backend has not issued a link yet.
const MeetingNotice = "Your meeting link will be sent to your email before the call."

type SessionView struct {
	SessionID string             `json:"session_id"`
	State     core.State         `json:"state"`
	Service   *model.ServiceInfo `json:"service,omitempty"`
	Creator   *model.CreatorInfo `json:"creator,omitempty"`

	Calendar       CalendarView `json:"calendar"`
	AvailableDates []string     `json:"available_dates"`
	ActiveWeekdays []int        `json:"active_weekdays"`

	SelectedDate string     `json:"selected_date,omitempty"`
	Slots        []SlotView `json:"slots"`
	SlotsLoading bool       `json:"slots_loading"`

	Draft        *DraftView                 `json:"draft,omitempty"`
	FormError    string                     `json:"form_error,omitempty"`
	FormErrors   validator.ValidationErrors `json:"form_errors,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	Confirmation *ConfirmationView          `json:"confirmation,omitempty"`
}

type CalendarView struct {
	Month   int          `json:"month"`
	Year    int          `json:"year"`
	Loading bool         `json:"loading"`
	Weeks   [][]CellView `json:"weeks"`
}

type CellView struct {
	Day        int    `json:"day"`
	Date       string `json:"date,omitempty"`
	IsPast     bool   `json:"is_past"`
	Available  bool   `json:"available"`
	Selectable bool   `json:"selectable"`
}

type SlotView struct {
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Available  bool   `json:"available"`
	Selectable bool   `json:"selectable"`
}

type DraftView struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type ConfirmationView struct {
	BookingID       string `json:"booking_id"`
	Service         string `json:"service"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MeetingURL      string `json:"meeting_url,omitempty"`
	ShowJoinMeeting bool   `json:"show_join_meeting"`
	MeetingNotice   string `json:"meeting_notice,omitempty"`
}

func newSessionView(session *service.Session) SessionView {
	snap := session.Controller.Snapshot()
	pickingSlot := snap.State == core.StateSelectDate && !snap.SlotsLoading

	view := SessionView{
		SessionID:      session.ID,
		State:          snap.State,
		Service:        snap.Service,
		Creator:        snap.Creator,
		Calendar:       newCalendarView(snap),
		AvailableDates: snap.AvailableDates.Sorted(),
		ActiveWeekdays: snap.ActiveWeekdays,
		SelectedDate:   snap.SelectedDate,
		Slots:          make([]SlotView, 0, len(snap.Slots)),
		SlotsLoading:   snap.SlotsLoading,
		FormError:      snap.FormError(),
		FormErrors:     snap.FormErrors,
		ErrorMessage:   snap.ErrorMessage,
	}
	if view.ActiveWeekdays == nil {
		view.ActiveWeekdays = []int{}
	}

	for _, slot := range snap.Slots {
		view.Slots = append(view.Slots, SlotView{
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Available:  slot.Available,
			Selectable: pickingSlot && slot.Available,
		})
	}

	if snap.Draft != nil {
		view.Draft = &DraftView{
			Date:      snap.Draft.Date,
			StartTime: snap.Draft.Slot.StartTime,
			EndTime:   snap.Draft.Slot.EndTime,
			Name:      snap.Draft.Name,
			Email:     snap.Draft.Email,
			Phone:     snap.Draft.Phone,
		}
	}

	if snap.Confirmation != nil {
		conf := newConfirmationView(*snap.Confirmation)
		view.Confirmation = &conf
	}

	return view
}

func newCalendarView(snap core.Snapshot) CalendarView {
	grid := snap.Grid()
	weeks := make([][]CellView, 0, (len(grid)+6)/7)
	for _, row := range calendar.Rows(grid) {
		week := make([]CellView, 0, len(row))
		for _, cell := range row {
			week = append(week, CellView{
				Day:        cell.Day,
				Date:       cell.Date,
				IsPast:     cell.IsPast,
				Available:  cell.Available,
				Selectable: cell.Selectable(),
			})
		}
		weeks = append(weeks, week)
	}

	return CalendarView{
		Month:   snap.Month.Month,
		Year:    snap.Month.Year,
		Loading: snap.MonthLoading,
		Weeks:   weeks,
	}
}

func newConfirmationView(conf model.BookingConfirmation) ConfirmationView {
	view := ConfirmationView{
		BookingID: conf.ID,
		Service:   conf.Service,
		Date:      conf.Date,
		StartTime: conf.StartTime,
		EndTime:   conf.EndTime,
	}
	if conf.HasMeetingLink() {
		view.MeetingURL = conf.MeetingURL
		view.ShowJoinMeeting = true
	} else {
		view.MeetingNotice = MeetingNotice
	}
	return view
}
