package events

import (
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

// Bus fans events out to every subscriber in publication order. Each
// subscriber has an unbounded queue, so Publish never blocks and a slow
// reader never loses events.
type Bus struct {
	mu          sync.Mutex
	subscribers map[int64]*Subscription // Protected by mu
	seq         uint64                  // Protected by mu
	closed      bool                    // Protected by mu
	nextID      atomic.Int64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int64]*Subscription),
	}
}

// Subscribe registers a reader that sees every event published from now on.
// Subscribing to a closed bus yields an already finished subscription.
func (b *Bus) Subscribe() *Subscription {
	sub := newSubscription(b.nextID.Add(1))

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.finish()
	} else {
		b.subscribers[sub.id] = sub
	}
	go sub.pump()
	return sub
}

// Unsubscribe removes sub. Its channel closes without draining the queue.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	delete(b.subscribers, sub.id)
	b.mu.Unlock()

	sub.abort()
}

// Publish stamps ev with the next sequence number and queues it for every
// subscriber. Events published after Close are dropped and reported false.
func (b *Bus) Publish(ev types.Event) (types.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ev, false
	}

	b.seq++
	ev.Seq = b.seq
	for _, sub := range b.subscribers {
		sub.push(ev)
	}
	return ev, true
}

// Close ends every stream once its queued events are delivered
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscribers {
		sub.finish()
		delete(b.subscribers, id)
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
