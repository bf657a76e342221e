package eventstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
)

type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
		WriteTimeout: 5 * time.Second,
	}
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PaymentCompleted is the record written for every delivered notification.
// AmountPaid is in major units, matching the downstream notification.
type PaymentCompleted struct {
	SessionID     string      `json:"session_id"`
	InvoiceID     string      `json:"invoice_id"`
	CustomerEmail string      `json:"customer_email"`
	AmountPaid    json.Number `json:"amount_paid"`
	Trigger       string      `json:"trigger"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// Publisher forwards delivered notifications to a topic. Write failures are
// logged and swallowed.
type Publisher struct {
	Writer  MessageWriter
	Logger  logging.Logger
	Timeout time.Duration
	Now     func() time.Time
}

func (p *Publisher) Handle(evt event.Event) error {
	payload, ok := evt.Payload.(event.NotificationPayload)
	if !ok {
		return fmt.Errorf("eventstream: unexpected payload %T", evt.Payload)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := PublishJSON(ctx, p.Writer, payload.SessionID, PaymentCompleted{
		SessionID:     payload.SessionID,
		InvoiceID:     payload.InvoiceID,
		CustomerEmail: payload.CustomerEmail,
		AmountPaid:    json.Number(checkout.FromMinorUnits(payload.AmountPaid).String()),
		Trigger:       string(payload.Trigger),
		OccurredAt:    now().UTC(),
	}); err != nil {
		p.Logger.Error("kafka publish failed", map[string]any{
			"session_id": payload.SessionID,
			"error":      err,
		})
	}

	return nil
}

func PublishJSON(ctx context.Context, writer MessageWriter, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data, Time: time.Now().UTC()})
}
