package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"bookingflow/pkg/calendar"
	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"
)

type ServiceLookup struct {
	Service model.ServiceInfo
	Creator model.CreatorInfo
}

type MonthAvailability struct {
	Month calendar.Month
	Dates calendar.DateSet
	// ActiveWeekdays is a UI hint for recurring availability, not authoritative.
	ActiveWeekdays []int
}

type DaySlots struct {
	Date  string
	Slots []model.Slot
}

// AvailabilityClient wraps the three read-only public booking queries.
type AvailabilityClient struct {
	httpClient *HttpClient
	log        *logger.Logger
}

func NewAvailabilityClient(baseURL string, timeout time.Duration, log *logger.Logger) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseURL, timeout),
		log:        log,
	}
}

type serviceWire struct {
	ID              flexString `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes flexInt    `json:"duration_minutes"`
	Duration        flexInt    `json:"duration"`
	Price           float64    `json:"price"`
	Platform        string     `json:"platform"`
}

type creatorWire struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
}

type serviceLookupWire struct {
	Service *serviceWire `json:"service"`
	Creator *creatorWire `json:"creator"`
}

type availableDatesWire struct {
	AvailableDates   []string `json:"available_dates"`
	ActiveDaysOfWeek []int    `json:"active_days_of_week"`
}

type slotsWire struct {
	Slots []model.Slot `json:"slots"`
}

func (c *AvailabilityClient) FetchService(ctx context.Context, creatorID, serviceID string) Result[ServiceLookup] {
	path := fmt.Sprintf("/booking/%s/public/%s", url.PathEscape(creatorID), url.PathEscape(serviceID))

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		c.log.Warn("service lookup failed",
			"creator_id", creatorID,
			"service_id", serviceID,
			"error", err,
		)
		return Fail[ServiceLookup](FailureTransport, "")
	}

	res := decodeEnvelope[serviceLookupWire](resp)
	wire, ok := res.Value()
	if !ok {
		c.logFailure("service lookup", res.Kind(), res.Reason(), resp)
		return Fail[ServiceLookup](res.Kind(), res.Reason())
	}
	if wire.Service == nil || wire.Creator == nil {
		c.log.Warn("service lookup returned incomplete payload", "response", resp.ToString())
		return Fail[ServiceLookup](FailureDecode, "")
	}

	duration := int(wire.Service.DurationMinutes)
	if duration == 0 {
		duration = int(wire.Service.Duration)
	}
	name := wire.Creator.Name
	if name == "" {
		name = wire.Creator.DisplayName
	}

	return Ok(ServiceLookup{
		Service: model.ServiceInfo{
			ID:              string(wire.Service.ID),
			Title:           wire.Service.Title,
			Description:     wire.Service.Description,
			DurationMinutes: duration,
			Price:           wire.Service.Price,
			Platform:        wire.Service.Platform,
		},
		Creator: model.CreatorInfo{
			ID:   string(wire.Creator.ID),
			Name: name,
		},
	})
}

func (c *AvailabilityClient) FetchAvailableDates(ctx context.Context, creatorID, serviceID string, month calendar.Month) Result[MonthAvailability] {
	q := url.Values{}
	q.Set("month", strconv.Itoa(month.Month))
	q.Set("year", strconv.Itoa(month.Year))

	path := fmt.Sprintf("/booking/%s/public/%s/available-dates?%s",
		url.PathEscape(creatorID),
		url.PathEscape(serviceID),
		q.Encode(),
	)

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		c.log.Warn("available dates fetch failed",
			"creator_id", creatorID,
			"service_id", serviceID,
			"month", month.String(),
			"error", err,
		)
		return Fail[MonthAvailability](FailureTransport, "")
	}

	res := decodeEnvelope[availableDatesWire](resp)
	wire, ok := res.Value()
	if !ok {
		c.logFailure("available dates", res.Kind(), res.Reason(), resp)
		return Fail[MonthAvailability](res.Kind(), res.Reason())
	}

	dates, invalid := calendar.ParseDateSet(wire.AvailableDates)
	if len(invalid) > 0 {
		c.log.Warn("dropping malformed available dates", "month", month.String(), "dates", invalid)
	}

	return Ok(MonthAvailability{
		Month:          month,
		Dates:          dates,
		ActiveWeekdays: wire.ActiveDaysOfWeek,
	})
}

func (c *AvailabilityClient) FetchSlots(ctx context.Context, creatorID, date, serviceID string) Result[DaySlots] {
	q := url.Values{}
	q.Set("date_str", date)
	q.Set("service_id", serviceID)

	path := fmt.Sprintf("/booking/%s/slots?%s", url.PathEscape(creatorID), q.Encode())

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		c.log.Warn("slots fetch failed",
			"creator_id", creatorID,
			"service_id", serviceID,
			"date", date,
			"error", err,
		)
		return Fail[DaySlots](FailureTransport, "")
	}

	res := decodeEnvelope[slotsWire](resp)
	wire, ok := res.Value()
	if !ok {
		c.logFailure("slots", res.Kind(), res.Reason(), resp)
		return Fail[DaySlots](res.Kind(), res.Reason())
	}

	slots := wire.Slots
	if slots == nil {
		slots = []model.Slot{}
	}
	return Ok(DaySlots{Date: date, Slots: slots})
}

func (c *AvailabilityClient) logFailure(call string, kind FailureKind, reason string, resp *Response) {
	c.log.Warn("backend call did not succeed",
		"call", call,
		"kind", kind,
		"reason", reason,
		"status", resp.StatusCode,
	)
}
