// Package eventqueue provides the n:1 event queue that decouples
// protocol dispatch from application polling. Producers push from
// dispatch callbacks (or the key-repeat goroutine), consumers drain
// once per event-loop iteration.
package eventqueue

import "sync"

type queue[T any] struct {
	mu     sync.Mutex
	events []T
}

// Source is the write side of a queue. Copies of a Source share the
// same underlying buffer.
type Source[T any] struct {
	q *queue[T]
}

// Drain is the read side of a queue. Copies of a Drain share the same
// underlying buffer.
type Drain[T any] struct {
	q *queue[T]
}

// New returns a connected Source/Drain pair over a fresh queue.
func New[T any]() (Source[T], Drain[T]) {
	q := &queue[T]{}
	return Source[T]{q: q}, Drain[T]{q: q}
}

// Push appends an event. It never blocks and never fails; the queue
// grows without bound if the consumer stops polling.
func (s Source[T]) Push(event T) {
	s.q.mu.Lock()
	s.q.events = append(s.q.events, event)
	s.q.mu.Unlock()
}

// Poll removes every currently buffered event and forwards each one to
// cb in FIFO order. With an empty queue cb is not called. Events pushed
// while cb runs are left for the next Poll.
func (d Drain[T]) Poll(cb func(T)) {
	d.q.mu.Lock()
	events := d.q.events
	d.q.events = nil
	d.q.mu.Unlock()

	for _, event := range events {
		cb(event)
	}
}

// Len reports the number of buffered events.
func (d Drain[T]) Len() int {
	d.q.mu.Lock()
	defer d.q.mu.Unlock()
	return len(d.q.events)
}
