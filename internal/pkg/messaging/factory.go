package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverMemory       = "memory"
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// Config selects a driver and carries the settings of every backend.
type Config struct {
	Driver string
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

// New constructs the Messaging implementation named by cfg.Driver.
func New(ctx context.Context, cfg Config) (Messaging, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverNSQ:
		return NewNSQ(cfg.NSQ)
	case DriverKafka:
		return NewKafka(cfg.Kafka)
	case DriverNATS:
		return NewNATS(cfg.NATS)
	case DriverGooglePubSub:
		return NewPubSub(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
