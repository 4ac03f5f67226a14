package model

import "time"

// BookingRecord is the archived outcome of a flow that reached confirmation.
type BookingRecord struct {
	BookingConfirmation `bson:",inline"`

	SessionID   string    `json:"session_id" bson:"session_id"`
	CreatorID   string    `json:"creator_id" bson:"creator_id"`
	ServiceID   string    `json:"service_id" bson:"service_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ConfirmedAt time.Time `json:"confirmed_at" bson:"confirmed_at"`
}

// BookingFailure describes a submission the backend did not confirm.
type BookingFailure struct {
	SessionID  string    `json:"session_id"`
	CreatorID  string    `json:"creator_id"`
	ServiceID  string    `json:"service_id"`
	Date       string    `json:"date,omitempty"`
	StartTime  string    `json:"start_time,omitempty"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
