package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTopicRequired is returned when publishing or consuming without a topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume gets a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned by drivers that need a consumer group.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("messaging: client closed")
	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("messaging: handler panic")
)

// Messaging is a broker client that can publish and consume.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher sends messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg OutgoingMessage) error
}

// Consumer receives messages from a topic. Consume blocks until ctx is done
// or the client is closed.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one message. A nil error acknowledges it; on error the
// driver asks the broker for redelivery where the broker supports it.
type Handler func(ctx context.Context, msg *Message) error

// OutgoingMessage is what a publisher hands to the broker.
type OutgoingMessage struct {
	// Key is the partition key on Kafka and the ordering key on Pub/Sub.
	Key     []byte
	Body    []byte
	Headers map[string]string
}

// Message is a received message.
type Message struct {
	ID        string
	Topic     string
	Key       []byte
	Body      []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Header returns the value of header key, or "".
func (m *Message) Header(key string) string {
	if m == nil || m.Headers == nil {
		return ""
	}
	return m.Headers[key]
}
