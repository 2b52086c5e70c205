// Package bus provides the in-process publish/subscribe register that
// decouples writers from live readers. It holds no backlog: a subscriber
// only sees events published after it subscribed, and nothing is replayed
// or persisted. Fan-out stops at the process boundary.
package bus

import (
	"sync"

	"github.com/google/uuid"

	"taskhub/internal/domain"
)

// DefaultQueueSize is the per-subscriber queue capacity used when New is
// given a non-positive size.
const DefaultQueueSize = 16

// Bus routes published events to every current subscriber of a topic.
// The zero value is not usable; construct with New. A nil *Bus is safe to
// publish on and simply drops events, which lets services run without
// live notification in narrow tests.
type Bus struct {
	mu        sync.Mutex
	subs      map[domain.Topic]map[string]*Subscription
	queueSize int
}

// Subscription is a live listener on a single topic. Events arrive on the
// channel returned by Events until Close (or Bus.Unsubscribe) is called,
// after which the channel is closed.
type Subscription struct {
	id     string
	topic  domain.Topic
	ch     chan domain.Event
	bus    *Bus
	closed bool // guarded by bus.mu
}

// New creates a Bus whose subscribers each buffer up to queueSize events.
func New(queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bus{
		subs:      make(map[domain.Topic]map[string]*Subscription),
		queueSize: queueSize,
	}
}

// Subscribe registers a new listener on the topic. Delivery starts with the
// next Publish; there is no backlog.
func (b *Bus) Subscribe(topic domain.Topic) *Subscription {
	s := &Subscription{
		id:    uuid.NewString(),
		topic: topic,
		ch:    make(chan domain.Event, b.queueSize),
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.subs[topic]
	if !ok {
		m = make(map[string]*Subscription)
		b.subs[topic] = m
	}
	m[s.id] = s
	return s
}

// Publish delivers the event to every subscription currently registered for
// the topic. Delivery is independent per subscriber and never blocks: when a
// subscriber's queue is full, its oldest undelivered event is dropped to make
// room for the new one (drop-oldest policy). Subscribers are never
// disconnected by the bus.
func (b *Bus) Publish(topic domain.Topic, event domain.Event) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs[topic] {
		select {
		case s.ch <- event:
		default:
			// Queue full: discard the oldest pending event. Only Publish
			// sends on the channel and it holds the lock, so after the
			// drain there is room unless the subscriber raced us to it,
			// in which case the send still succeeds.
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- event:
			default:
			}
		}
	}
}

// Unsubscribe stops delivery to the subscription and closes its channel.
// It is safe to call more than once and safe to call concurrently with
// Publish.
func (b *Bus) Unsubscribe(s *Subscription) {
	if b == nil || s == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	delete(b.subs[s.topic], s.id)
	if len(b.subs[s.topic]) == 0 {
		delete(b.subs, s.topic)
	}
	close(s.ch)
}

// Events returns the channel on which published events arrive. The channel
// is closed when the subscription ends.
func (s *Subscription) Events() <-chan domain.Event { return s.ch }

// Topic returns the topic this subscription listens on.
func (s *Subscription) Topic() domain.Topic { return s.topic }

// ID returns the subscription's unique identity.
func (s *Subscription) ID() string { return s.id }

// Close unsubscribes from the bus. Safe to call more than once.
func (s *Subscription) Close() { s.bus.Unsubscribe(s) }
