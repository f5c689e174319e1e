// Package stream provides an ordered fan-out of state snapshots to
// channel-based subscribers with explicit cancellation.
package stream

import "sync"

const subscriberBuffer = 64

// Subscription is one consumer's view of a Broadcaster. Values arrive on C
// in publish order, starting with the snapshot current at subscribe time.
// Cancel stops delivery and closes C; it is safe to call more than once.
type Subscription[T any] struct {
	C <-chan T

	once   sync.Once
	cancel func()
}

func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Broadcaster delivers every published value to all live subscribers.
// Publish order defines delivery order for each subscriber.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan T
	closed bool
}

func New[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[int]chan T)}
}

// Subscribe registers a consumer and synchronously queues initial as the
// first delivery so a subscriber always observes the current state before
// any transition.
func (b *Broadcaster[T]) Subscribe(initial T) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, subscriberBuffer)
	ch <- initial

	if b.closed {
		close(ch)
		return &Subscription[T]{C: ch, cancel: func() {}}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	return &Subscription[T]{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		},
	}
}

// Publish fans v out to every subscriber. A subscriber that has fallen
// more than subscriberBuffer values behind misses the oldest delivery
// rather than blocking the publisher.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Close ends all subscriptions. Further Subscribe calls receive only the
// initial snapshot.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
