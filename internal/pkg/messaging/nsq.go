package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// ErrNSQAddrRequired is returned when neither nsqd nor lookupd addresses are set.
var ErrNSQAddrRequired = errors.New("messaging: nsq address is required")

// NSQConfig configures the NSQ driver.
type NSQConfig struct {
	// NSQDAddr is the nsqd TCP address used for publishing, and for
	// consuming when LookupdAddrs is empty.
	NSQDAddr     string
	LookupdAddrs []string
}

// NSQ publishes to nsqd and consumes through lookupd or nsqd directly.
// NSQ has no message headers, so the body is wrapped in a small JSON
// envelope carrying them.
type NSQ struct {
	cfg      NSQConfig
	producer *nsq.Producer
}

type nsqEnvelope struct {
	Key     []byte            `json:"key,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

// NewNSQ creates the producer. Connections are opened lazily by go-nsq.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.NSQDAddr == "" && len(cfg.LookupdAddrs) == 0 {
		return nil, ErrNSQAddrRequired
	}

	n := &NSQ{cfg: cfg}
	if cfg.NSQDAddr != "" {
		p, err := nsq.NewProducer(cfg.NSQDAddr, nsq.NewConfig())
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}
	return n, nil
}

// Close stops the producer.
func (n *NSQ) Close() error {
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish sends msg to topic.
func (n *NSQ) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return ErrNSQAddrRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(nsqEnvelope{Key: msg.Key, Headers: msg.Headers, Body: msg.Body})
	if err != nil {
		return err
	}
	if err := n.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

// Consume reads topic on the channel named by the option group. A failed
// handler requeues the message.
func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	cfg := nsq.NewConfig()
	cfg.MaxInFlight = co.concurrency

	consumer, err := nsq.NewConsumer(topic, co.group, cfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		return dispatch(ctx, DriverNSQ, handler, fromNSQ(topic, m))
	}), co.concurrency)

	if len(n.cfg.LookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.LookupdAddrs)
	} else {
		err = consumer.ConnectToNSQD(n.cfg.NSQDAddr)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return ErrClosed
	}
}

func fromNSQ(topic string, m *nsq.Message) *Message {
	msg := &Message{
		ID:        string(m.ID[:]),
		Topic:     topic,
		Timestamp: time.Unix(0, m.Timestamp),
	}

	var env nsqEnvelope
	if err := json.Unmarshal(m.Body, &env); err != nil {
		msg.Body = m.Body
		return msg
	}
	msg.Key, msg.Headers, msg.Body = env.Key, env.Headers, env.Body
	return msg
}
