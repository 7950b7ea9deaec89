package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TypeBookingRequested = "booking.requested"
	TypeBookingApproved  = "booking.approved"
	TypeBookingRejected  = "booking.rejected"
)

const (
	DriverNone     = "none"
	DriverRabbitMQ = "rabbitmq"
	DriverKafka    = "kafka"
)

// BookingEvent is published after a booking write has committed
type BookingEvent struct {
	ID         string    `json:"event_id"`
	Type       string    `json:"event_type"`
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
	}
}

func (e BookingEvent) Key() string {
	return fmt.Sprintf("booking-%d", e.BookingID)
}

func (e BookingEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// NewPublisher builds the publisher selected by cfg.Driver
func NewPublisher(cfg utils.EventsConfig, log *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return NoopPublisher{}, nil
	case DriverRabbitMQ:
		return NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange, log)
	case DriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
