package core

import (
	"context"

	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/calendar"
	"bookingflow/pkg/client"
	"bookingflow/pkg/model"
)

type AvailabilityGateway interface {
	FetchService(ctx context.Context, creatorID, serviceID string) client.Result[client.ServiceLookup]
	FetchAvailableDates(ctx context.Context, creatorID, serviceID string, month calendar.Month) client.Result[client.MonthAvailability]
	FetchSlots(ctx context.Context, creatorID, date, serviceID string) client.Result[client.DaySlots]
}

type ReservationGateway interface {
	Reserve(ctx context.Context, req model.ReservationRequest) client.Result[model.BookingConfirmation]
}

type ContactValidator interface {
	Normalize(form validator.ContactForm) validator.ContactForm
	Validate(form validator.ContactForm) error
}
