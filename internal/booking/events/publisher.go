package events

import (
	"context"
	"fmt"
	"time"

	"bookingflow/pkg/kafka"
	"bookingflow/pkg/middleware"
	"bookingflow/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingFailed    = "booking.failed"

	SchemaVersion = "1"
)

type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingConfirmed is the payload of booking.confirmed. Contact details stay
// in the archive and are not put on the bus.
type BookingConfirmed struct {
	BookingID      string    `json:"booking_id"`
	SessionID      string    `json:"session_id"`
	CreatorID      string    `json:"creator_id"`
	ServiceID      string    `json:"service_id"`
	Service        string    `json:"service"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	MeetingURL     string    `json:"meeting_url"`
	HasMeetingLink bool      `json:"has_meeting_link"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

type BookingFailed struct {
	SessionID  string    `json:"session_id"`
	CreatorID  string    `json:"creator_id"`
	ServiceID  string    `json:"service_id"`
	Date       string    `json:"date,omitempty"`
	StartTime  string    `json:"start_time,omitempty"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BookingEventPublisher struct {
	producer MessagePublisher
	source   string
}

func NewBookingEventPublisher(producer MessagePublisher, source string) *BookingEventPublisher {
	return &BookingEventPublisher{producer: producer, source: source}
}

func (p *BookingEventPublisher) PublishConfirmed(ctx context.Context, record *model.BookingRecord) error {
	payload := BookingConfirmed{
		BookingID:      record.ID,
		SessionID:      record.SessionID,
		CreatorID:      record.CreatorID,
		ServiceID:      record.ServiceID,
		Service:        record.Service,
		Date:           record.Date,
		StartTime:      record.StartTime,
		EndTime:        record.EndTime,
		MeetingURL:     record.MeetingURL,
		HasMeetingLink: record.HasMeetingLink(),
		ConfirmedAt:    record.ConfirmedAt,
	}
	return p.publish(ctx, EventBookingConfirmed, record.ID, payload, record.ConfirmedAt)
}

func (p *BookingEventPublisher) PublishFailed(ctx context.Context, failure *model.BookingFailure) error {
	payload := BookingFailed{
		SessionID:  failure.SessionID,
		CreatorID:  failure.CreatorID,
		ServiceID:  failure.ServiceID,
		Date:       failure.Date,
		StartTime:  failure.StartTime,
		Reason:     failure.Reason,
		OccurredAt: failure.OccurredAt,
	}
	return p.publish(ctx, EventBookingFailed, failure.SessionID, payload, failure.OccurredAt)
}

func (p *BookingEventPublisher) publish(ctx context.Context, eventType, key string, payload any, at time.Time) error {
	builder := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFrom(ctx))
	if !at.IsZero() {
		builder = builder.WithTimestamp(at)
	}

	msg, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", eventType, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}
