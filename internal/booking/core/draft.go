package core

import (
	"bookingflow/internal/booking/validator"
	"bookingflow/pkg/model"
)

// Draft is the booking being assembled between slot pick and submission.
type Draft struct {
	Date  string     `json:"date"`
	Slot  model.Slot `json:"slot"`
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email,omitempty"`
	Phone string     `json:"phone,omitempty"`
	// IdempotencyKey is fixed on the first valid submit of this draft.
	IdempotencyKey string `json:"-"`
}

func (d *Draft) setContact(form validator.ContactForm) {
	d.Name = form.Name
	d.Email = form.Email
	d.Phone = form.Phone
}

func (d *Draft) reservation(creatorID, serviceID string) model.ReservationRequest {
	return model.ReservationRequest{
		CreatorID:      creatorID,
		ServiceID:      serviceID,
		Date:           d.Date,
		StartTime:      d.Slot.StartTime,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		IdempotencyKey: d.IdempotencyKey,
	}
}
