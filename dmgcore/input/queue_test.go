package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushDrainOrder(t *testing.T) {
	q := NewQueue()

	q.Push(ButtonA, true)
	q.Push(ButtonA, false)
	q.Push(ButtonB, true)

	events := q.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, ButtonEvent{ButtonA, true}, events[0])
	assert.Equal(t, ButtonEvent{ButtonA, false}, events[1])
	assert.Equal(t, ButtonEvent{ButtonB, true}, events[2])

	assert.Empty(t, q.Drain(), "second drain should return nothing")
}

func TestQueue_NoCoalescing(t *testing.T) {
	q := NewQueue()

	// Two presses without an intervening release must both survive
	q.Push(ButtonStart, true)
	q.Push(ButtonStart, true)

	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, events[0], events[1])
}

func TestQueue_DrainEmpty(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Drain())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(btn Button) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(btn, i%2 == 0)
			}
		}(Button(p))
	}
	wg.Wait()

	events := q.Drain()
	require.Len(t, events, producers*perProducer)

	// Per-producer order must survive the interleaving: each producer
	// alternates press/release, so its own events stay alternating.
	perButton := make(map[Button][]bool)
	for _, e := range events {
		perButton[e.Button] = append(perButton[e.Button], e.Pressed)
	}
	for btn, states := range perButton {
		require.Len(t, states, perProducer, "button %v", btn)
		for i, pressed := range states {
			assert.Equal(t, i%2 == 0, pressed, "button %v event %d out of order", btn, i)
		}
	}
}

func TestQueue_PushAfterDrain(t *testing.T) {
	q := NewQueue()
	q.Push(ButtonLeft, true)
	q.Drain()

	q.Push(ButtonRight, true)
	events := q.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, ButtonRight, events[0].Button)
}
