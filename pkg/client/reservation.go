package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// ReservationClient submits the visitor's booking. It never retries.
type ReservationClient struct {
	httpClient *HttpClient
	log        *logger.Logger
}

func NewReservationClient(baseURL string, timeout time.Duration, log *logger.Logger) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseURL, timeout),
		log:        log,
	}
}

type confirmationWire struct {
	ID         flexString `json:"id"`
	Service    string     `json:"service"`
	Date       string     `json:"date"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	MeetingURL string     `json:"meeting_url"`
}

type reserveWire struct {
	Booking *confirmationWire `json:"booking"`
}

func (c *ReservationClient) Reserve(ctx context.Context, req model.ReservationRequest) Result[model.BookingConfirmation] {
	path := fmt.Sprintf("/booking/%s/reserve", url.PathEscape(req.CreatorID))
	headers := map[string]string{IdempotencyKeyHeader: req.IdempotencyKey}

	resp, err := c.httpClient.POSTWithHeaders(ctx, path, req, headers)
	if err != nil {
		c.log.Warn("reserve request failed",
			"creator_id", req.CreatorID,
			"service_id", req.ServiceID,
			"date", req.Date,
			"start_time", req.StartTime,
			"error", err,
		)
		return Fail[model.BookingConfirmation](FailureTransport, "")
	}

	res := decodeEnvelope[reserveWire](resp)
	payload, ok := res.Value()
	if !ok {
		c.log.Warn("reserve rejected",
			"creator_id", req.CreatorID,
			"service_id", req.ServiceID,
			"kind", res.Kind(),
			"reason", res.Reason(),
			"status", resp.StatusCode,
		)
		return Fail[model.BookingConfirmation](res.Kind(), res.Reason())
	}
	if payload.Booking == nil || payload.Booking.ID == "" {
		c.log.Warn("reserve returned no booking id", "response", resp.ToString())
		return Fail[model.BookingConfirmation](FailureDecode, "")
	}

	wire := payload.Booking
	c.log.Info("booking reserved",
		"booking_id", string(wire.ID),
		"creator_id", req.CreatorID,
		"service_id", req.ServiceID,
	)

	return Ok(model.BookingConfirmation{
		ID:         string(wire.ID),
		Service:    wire.Service,
		Date:       wire.Date,
		StartTime:  wire.StartTime,
		EndTime:    wire.EndTime,
		MeetingURL: wire.MeetingURL,
	})
}
