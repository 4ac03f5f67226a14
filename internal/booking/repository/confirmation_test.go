package repository

import (
	"context"
	"testing"
	"time"

	bookingerrors "bookingflow/internal/booking/errors"
	"bookingflow/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestConfirmationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save upserts", func(mt *mtest.T) {
		repo := newConfirmationRepository(mt.Coll, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		record := &model.BookingRecord{
			BookingConfirmation: model.BookingConfirmation{ID: "bk_1", Date: "2025-06-10", StartTime: "09:00"},
			SessionID:           "sess-1",
			CreatorID:           "alice",
		}
		require.NoError(t, repo.Save(context.Background(), record))
		assert.False(t, record.ConfirmedAt.IsZero())
	})

	mt.Run("save without id", func(mt *mtest.T) {
		repo := newConfirmationRepository(mt.Coll, time.Second, time.Second)
		err := repo.Save(context.Background(), &model.BookingRecord{})
		assert.Error(t, err)
	})

	mt.Run("save write error", func(mt *mtest.T) {
		repo := newConfirmationRepository(mt.Coll, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Save(context.Background(), &model.BookingRecord{
			BookingConfirmation: model.BookingConfirmation{ID: "bk_1"},
		})
		assert.ErrorContains(t, err, "failed to save confirmation")
	})

	mt.Run("find by id", func(mt *mtest.T) {
		repo := newConfirmationRepository(mt.Coll, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "booking_flow.Confirmations", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "bk_1"},
			{Key: "service", Value: "Intro call"},
			{Key: "date", Value: "2025-06-10"},
			{Key: "start_time", Value: "09:00"},
			{Key: "end_time", Value: "09:30"},
			{Key: "meeting_url", Value: model.MeetingLinkPending},
			{Key: "session_id", Value: "sess-1"},
			{Key: "creator_id", Value: "alice"},
			{Key: "service_id", Value: "svc1"},
			{Key: "name", Value: "Bob"},
			{Key: "email", Value: "bob@example.com"},
		}))

		record, err := repo.FindByID(context.Background(), "bk_1")
		require.NoError(t, err)
		assert.Equal(t, "bk_1", record.ID)
		assert.Equal(t, "Intro call", record.Service)
		assert.Equal(t, "alice", record.CreatorID)
		assert.False(t, record.HasMeetingLink())
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := newConfirmationRepository(mt.Coll, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "booking_flow.Confirmations", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), "bk_404")
		assert.ErrorIs(t, err, bookingerrors.ErrConfirmationNotFound)
	})
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, cancelChild := withTimeout(parent, time.Hour)
	defer cancelChild()

	parentDeadline, _ := parent.Deadline()
	childDeadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.Equal(t, parentDeadline, childDeadline)
}
