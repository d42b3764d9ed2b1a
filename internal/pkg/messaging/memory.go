package messaging

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const memoryQueueSize = 256

// Memory is an in-process bus. Every group subscribed to a topic receives
// its own copy of each message; consumers within a group share it. Messages
// published to a topic nobody consumes are dropped, and failed messages are
// not redelivered.
type Memory struct {
	mu     sync.RWMutex
	topics map[string]map[string]*memoryQueue

	seq    atomic.Uint64
	closed atomic.Bool
	done   chan struct{}
}

type memoryQueue struct {
	ch   chan *Message
	refs int
}

// NewMemory returns an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{
		topics: map[string]map[string]*memoryQueue{},
		done:   make(chan struct{}),
	}
}

// Close stops every consumer. Pending messages are discarded.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		close(m.done)
	}
	return nil
}

// Publish copies msg into the queue of every group consuming topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.RLock()
	queues := make([]*memoryQueue, 0, len(m.topics[topic]))
	for _, q := range m.topics[topic] {
		queues = append(queues, q)
	}
	m.mu.RUnlock()

	id := strconv.FormatUint(m.seq.Inc(), 10)
	now := time.Now()

	for _, q := range queues {
		received := &Message{
			ID:        id,
			Topic:     topic,
			Key:       append([]byte(nil), msg.Key...),
			Body:      append([]byte(nil), msg.Body...),
			Headers:   maps.Clone(msg.Headers),
			Timestamp: now,
		}

		select {
		case q.ch <- received:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}
	return nil
}

// Consume registers handler under the option group (default "") and blocks
// until ctx is done or the bus is closed.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	if m.closed.Load() {
		return ErrClosed
	}

	co := newConsumeOptions(opts...)
	q := m.join(topic, co.group)
	defer m.leave(topic, co.group)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case msg := <-q.ch:
					_ = dispatch(ctx, DriverMemory, handler, msg)
				case <-ctx.Done():
					return
				case <-m.done:
					return
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrClosed
}

func (m *Memory) join(topic, group string) *memoryQueue {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups, ok := m.topics[topic]
	if !ok {
		groups = map[string]*memoryQueue{}
		m.topics[topic] = groups
	}
	q, ok := groups[group]
	if !ok {
		q = &memoryQueue{ch: make(chan *Message, memoryQueueSize)}
		groups[group] = q
	}
	q.refs++
	return q
}

func (m *Memory) leave(topic, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.topics[topic][group]
	if q == nil {
		return
	}
	q.refs--
	if q.refs > 0 {
		return
	}
	delete(m.topics[topic], group)
	if len(m.topics[topic]) == 0 {
		delete(m.topics, topic)
	}
}

func (m *Memory) consumers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, q := range m.topics[topic] {
		n += q.refs
	}
	return n
}
