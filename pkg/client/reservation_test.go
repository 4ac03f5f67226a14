package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookingflow/pkg/logger"
	"bookingflow/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReservation(t *testing.T, handler http.HandlerFunc) *ReservationClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewReservationClient(srv.URL, 0, logger.Discard())
}

func sampleRequest() model.ReservationRequest {
	return model.ReservationRequest{
		CreatorID:      "c1",
		ServiceID:      "s1",
		Date:           "2025-06-10",
		StartTime:      "10:00",
		Name:           "Alex",
		Email:          "alex@example.com",
		IdempotencyKey: "key-1",
	}
}

func TestReserve_OK(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/booking/c1/reserve", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(IdempotencyKeyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["service_id"])
		assert.Equal(t, "2025-06-10", body["date"])
		assert.Equal(t, "10:00", body["start_time"])
		assert.Equal(t, "Alex", body["name"])
		assert.Equal(t, "alex@example.com", body["email"])
		assert.NotContains(t, body, "phone")
		assert.NotContains(t, body, "IdempotencyKey")

		_, _ = w.Write([]byte(`{"status":"ok","booking":{"id":981,"service":"Intro call","date":"2025-06-10","start_time":"10:00","end_time":"10:30","meeting_url":"https://meet.example.com/x"}}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	conf, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "981", conf.ID)
	assert.Equal(t, "10:30", conf.EndTime)
	assert.True(t, conf.HasMeetingLink())
}

func TestReserve_PendingMeetingLink(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","booking":{"id":"b-1","service":"Intro call","date":"2025-06-10","start_time":"10:00","end_time":"10:30","meeting_url":"Link will be sent before the call"}}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	conf, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, model.MeetingLinkPending, conf.MeetingURL)
	assert.False(t, conf.HasMeetingLink())
}

func TestReserve_RejectedWithDetail(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":"error","detail":"Slot is no longer available"}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	assert.False(t, res.OK())
	assert.Equal(t, FailureRejected, res.Kind())
	assert.Equal(t, "Slot is no longer available", res.Reason())
	assert.Equal(t, "Slot is no longer available", res.ReasonOr("fallback"))
}

func TestReserve_ValidationDetailList(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"field required"},{"msg":"invalid email"}]}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	assert.Equal(t, FailureRejected, res.Kind())
	assert.Equal(t, "field required; invalid email", res.Reason())
}

func TestReserve_RejectedWithoutDetail(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error"}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	assert.Equal(t, FailureRejected, res.Kind())
	assert.Equal(t, "fallback", res.ReasonOr("fallback"))
}

func TestReserve_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewReservationClient(srv.URL, 0, logger.Discard())

	res := c.Reserve(context.Background(), sampleRequest())

	assert.Equal(t, FailureTransport, res.Kind())
}

func TestReserve_MissingID(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","booking":{"service":"x"}}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	assert.Equal(t, FailureDecode, res.Kind())
}

func TestReserve_MissingBooking(t *testing.T) {
	c := newTestReservation(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	res := c.Reserve(context.Background(), sampleRequest())

	assert.Equal(t, FailureDecode, res.Kind())
}
