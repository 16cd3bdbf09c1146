// Package service contains the notification dispatcher: best-effort
// publishing of registration confirmations to the message broker.
// Failures are logged and returned so callers can ignore them
// without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/dmarku/eventdesk/internal/queue"
)

const registrationQueueName = "registration.confirmed"

// PublishRegistrationConfirmed publishes a confirmation event to
// the registration.confirmed queue. Messages are persistent so they
// survive a broker restart. Any error is logged; the registration
// itself has already committed, so delivery is best-effort.
func PublishRegistrationConfirmed(ctx context.Context, log *logrus.Logger, event queue.RegistrationConfirmedEvent) error {
	l := log.WithField("component", "notify")

	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		l.WithError(err).Warn("broker dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		l.WithError(err).Warn("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(registrationQueueName, true, false, false, false, nil); err != nil {
		l.WithError(err).Warn("queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		l.WithError(err).Warn("marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", registrationQueueName, false, false, pub); err != nil {
		l.WithError(err).Warn("publish failed")
		return err
	}
	return nil
}
