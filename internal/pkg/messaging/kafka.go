package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no broker is configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers []string
}

// Kafka publishes through one writer per topic and consumes with a reader
// per handler goroutine in the option group. Offsets are committed only
// after the handler succeeds.
type Kafka struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  bool
}

// NewKafka validates cfg; connections are opened on first use.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}
	return &Kafka{brokers: cfg.Brokers, writers: map[string]*kafka.Writer{}}, nil
}

// Close flushes and closes every writer.
func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true

	var err error
	for _, w := range k.writers {
		err = errors.Join(err, w.Close())
	}
	k.writers = nil
	return err
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = w
	return w, nil
}

// Publish writes msg to topic, partitioned by msg.Key.
func (k *Kafka) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if topic == "" {
		return ErrTopicRequired
	}

	w, err := k.writer(topic)
	if err != nil {
		return err
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body}
	for hk, hv := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: hk, Value: []byte(hv)})
	}

	if err := w.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

// Consume joins the option group on topic. The first fetch or commit error
// stops every reader.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}

	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			r := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  k.brokers,
				GroupID:  co.group,
				Topic:    topic,
				MaxBytes: 10e6,
			})
			defer r.Close()

			for {
				m, err := r.FetchMessage(ctx)
				if err != nil {
					cancel(err)
					return
				}
				if dispatch(ctx, DriverKafka, handler, fromKafka(m)) != nil {
					// not committed; redelivered after a rebalance or restart
					continue
				}
				if err := r.CommitMessages(ctx, m); err != nil {
					cancel(fmt.Errorf("messaging: kafka commit: %w", err))
					return
				}
			}
		})
	}
	wg.Wait()

	return context.Cause(ctx)
}

func fromKafka(m kafka.Message) *Message {
	msg := &Message{
		ID:        fmt.Sprintf("%d-%d", m.Partition, m.Offset),
		Topic:     m.Topic,
		Key:       m.Key,
		Body:      m.Value,
		Timestamp: m.Time,
	}
	if len(m.Headers) > 0 {
		msg.Headers = make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
