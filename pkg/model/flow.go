package model

import "strings"

// MeetingLinkPending is the meeting_url value the backend returns when the
// real link is emailed to the visitor before the call.
const MeetingLinkPending = "Link will be sent before the call"

type ServiceInfo struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Platform        string  `json:"platform,omitempty"`
}

type CreatorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Slot is a bookable interval on a single date. Times are local wall-clock "HH:MM".
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

func (s Slot) SameInterval(other Slot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

type ReservationRequest struct {
	CreatorID string `json:"-"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	// IdempotencyKey travels as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

type BookingConfirmation struct {
	ID         string `json:"id" bson:"_id"`
	Service    string `json:"service" bson:"service"`
	Date       string `json:"date" bson:"date"`
	StartTime  string `json:"start_time" bson:"start_time"`
	EndTime    string `json:"end_time" bson:"end_time"`
	MeetingURL string `json:"meeting_url" bson:"meeting_url"`
}

// HasMeetingLink reports whether MeetingURL is an actual link the visitor can open.
func (c BookingConfirmation) HasMeetingLink() bool {
	url := strings.TrimSpace(c.MeetingURL)
	return url != "" && url != MeetingLinkPending
}
