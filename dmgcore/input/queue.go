package input

import "sync"

// Queue is the ordered mailbox of button transitions between input
// producers and the emulation goroutine. Any goroutine may push; a single
// consumer drains once per frame. One lock serializes both sides, so the
// drained sequence preserves the combined submission order of all
// producers. Events are never coalesced: repeated presses of the same
// button all appear.
type Queue struct {
	mu     sync.Mutex
	events []ButtonEvent
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a button transition to the tail of the queue.
// Safe to call from any goroutine, never blocks on the consumer.
func (q *Queue) Push(button Button, pressed bool) {
	q.mu.Lock()
	q.events = append(q.events, ButtonEvent{Button: button, Pressed: pressed})
	q.mu.Unlock()
}

// Drain atomically removes and returns all queued events in FIFO order.
// Returns nil when the queue is empty.
func (q *Queue) Drain() []ButtonEvent {
	q.mu.Lock()
	events := q.events
	q.events = nil
	q.mu.Unlock()
	return events
}

// Len returns the number of currently queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
