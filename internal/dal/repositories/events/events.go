package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/models/outbox"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// channel is the subset of the AMQP channel the repository publishes through.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventRabbitMQRepository publishes mutation events to RabbitMQ.
// Events that cannot be delivered are parked in the outbox table and retried
// by the outbox worker; a failed publish never bubbles into a mutation result.
type EventRabbitMQRepository struct {
	channel    channel
	queueName  string
	outboxRepo ioutboxrepo.IOutboxRepository
	maxRetries int
}

// NewEventRabbitMQRepository creates the event repository and declares its queue.
func NewEventRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *EventRabbitMQRepository {
	queueName := viper.GetString("rabbitmq.events.queue")
	if queueName == "" {
		queueName = "crm.mutation.events"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	maxRetries := viper.GetInt("rabbitmq.events.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return &EventRabbitMQRepository{
		channel:    client.Channel(),
		queueName:  queue.Name,
		outboxRepo: outboxRepo,
		maxRetries: maxRetries,
	}
}

// Publish delivers a single mutation event. On delivery failure the event is
// stored in the outbox for redelivery and the publish error is returned so
// the caller can log it.
func (r *EventRabbitMQRepository) Publish(ctx context.Context, e event.MutationEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal mutation event: %w", err)
	}

	err = r.channel.Publish(
		"",
		r.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err == nil {
		return nil
	}

	now := time.Now()
	if outboxErr := r.outboxRepo.Insert(ctx, outbox.OutboxMessage{
		QueueName:   r.queueName,
		RoutingKey:  r.queueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  r.maxRetries,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}); outboxErr != nil {
		slog.Error("Failed to park mutation event in outbox",
			"operation", e.Operation,
			"error", outboxErr,
		)
	}

	return fmt.Errorf("failed to publish mutation event: %w", err)
}
