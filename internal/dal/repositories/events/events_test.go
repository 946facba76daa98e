package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	err       error
}

func (f *fakeChannel) Publish(_, _ string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeOutboxRepo struct {
	inserted  []outbox.OutboxMessage
	insertErr error
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.OutboxMessage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, msg)
	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.OutboxMessage, error) {
	return f.inserted, nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

func newRepo(ch *fakeChannel, ob *fakeOutboxRepo) *EventRabbitMQRepository {
	return &EventRabbitMQRepository{
		channel:    ch,
		queueName:  "crm.mutation.events",
		outboxRepo: ob,
		maxRetries: 5,
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers the event as JSON", func(t *testing.T) {
		ch := &fakeChannel{}
		ob := &fakeOutboxRepo{}

		err := newRepo(ch, ob).Publish(ctx, event.MutationEvent{
			Operation:  event.OpCreateCustomer,
			EntityIDs:  []int64{42},
			OccurredAt: time.Now(),
		})

		require.NoError(t, err)
		require.Len(t, ch.published, 1)
		assert.Empty(t, ob.inserted)

		var got event.MutationEvent
		require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
		assert.Equal(t, event.OpCreateCustomer, got.Operation)
		assert.Equal(t, []int64{42}, got.EntityIDs)
	})

	t.Run("parks the event in the outbox when the broker is down", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		ob := &fakeOutboxRepo{}

		err := newRepo(ch, ob).Publish(ctx, event.MutationEvent{
			Operation: event.OpCreateOrder,
			EntityIDs: []int64{7},
		})

		require.Error(t, err)
		require.Len(t, ob.inserted, 1)
		msg := ob.inserted[0]
		assert.Equal(t, "crm.mutation.events", msg.QueueName)
		assert.Equal(t, "crm.mutation.events", msg.RoutingKey)
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, 5, msg.MaxRetries)
		assert.Contains(t, msg.LastError, "channel closed")

		var got event.MutationEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, event.OpCreateOrder, got.Operation)
	})

	t.Run("still reports the publish error when the outbox also fails", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		ob := &fakeOutboxRepo{insertErr: errors.New("db down")}

		err := newRepo(ch, ob).Publish(ctx, event.MutationEvent{Operation: event.OpCreateProduct})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel closed")
	})
}
