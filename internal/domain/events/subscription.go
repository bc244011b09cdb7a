package events

import (
	"sync"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

// Subscription is one reader's view of the bus
type Subscription struct {
	id  int64
	out chan types.Event

	mu       sync.Mutex
	queue    []types.Event // Protected by mu
	finished bool          // Protected by mu

	wake      chan struct{}
	stop      chan struct{}
	abortOnce sync.Once
}

func newSubscription(id int64) *Subscription {
	return &Subscription{
		id:   id,
		out:  make(chan types.Event),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// ID identifies the subscription
func (s *Subscription) ID() int64 {
	return s.id
}

// Events delivers events in order. It is closed when the bus closes or the
// subscription is removed.
func (s *Subscription) Events() <-chan types.Event {
	return s.out
}

// Pending returns the number of queued, undelivered events
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Subscription) push(ev types.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.signal()
}

// finish closes the stream after the queue drains
func (s *Subscription) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.signal()
}

// abort closes the stream immediately
func (s *Subscription) abort() {
	s.abortOnce.Do(func() { close(s.stop) })
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			finished := s.finished
			s.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.stop:
				return
			}
		}
		ev := s.queue[0]
		s.queue[0] = types.Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.stop:
			return
		}
	}
}
