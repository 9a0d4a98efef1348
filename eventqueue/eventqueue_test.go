package eventqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollDeliversInOrder(t *testing.T) {
	source, drain := New[int]()
	for i := 0; i < 100; i++ {
		source.Push(i)
	}

	var got []int
	drain.Poll(func(v int) { got = append(got, v) })

	if len(got) != 100 {
		t.Fatalf("expected 100 events, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("event %d out of order: got %d", i, v)
		}
	}
}

func TestPollDrainsCompletely(t *testing.T) {
	source, drain := New[string]()
	source.Push("a")
	source.Push("b")

	var first []string
	drain.Poll(func(v string) { first = append(first, v) })
	assert.Equal(t, []string{"a", "b"}, first)

	// A second drain with no intervening pushes delivers nothing.
	calls := 0
	drain.Poll(func(string) { calls++ })
	assert.Zero(t, calls)
}

func TestPollEmptyQueue(t *testing.T) {
	_, drain := New[int]()
	drain.Poll(func(int) {
		t.Fatal("callback invoked on empty queue")
	})
}

func TestCopiesShareBuffer(t *testing.T) {
	source, drain := New[int]()
	source2 := source
	drain2 := drain

	source.Push(1)
	source2.Push(2)

	var got []int
	drain2.Poll(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{1, 2}, got)
	assert.Zero(t, drain.Len())
}

func TestEqualEventsNotCollapsed(t *testing.T) {
	type configure struct{ w, h int }

	source, drain := New[configure]()
	source.Push(configure{800, 600})
	source.Push(configure{800, 600})
	source.Push(configure{1024, 768})

	var got []configure
	drain.Poll(func(c configure) { got = append(got, c) })

	want := []configure{{800, 600}, {800, 600}, {1024, 768}}
	assert.Equal(t, want, got)
}

func TestConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	type tagged struct {
		producer int
		seq      int
	}

	source, drain := New[tagged]()
	const perProducer = 1000

	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			src := source
			for i := 0; i < perProducer; i++ {
				src.Push(tagged{producer: p, seq: i})
			}
		}(p)
	}
	wg.Wait()

	next := [2]int{}
	total := 0
	drain.Poll(func(ev tagged) {
		total++
		if ev.seq != next[ev.producer] {
			t.Fatalf("producer %d: expected seq %d, got %d",
				ev.producer, next[ev.producer], ev.seq)
		}
		next[ev.producer]++
	})
	if total != 2*perProducer {
		t.Fatalf("expected %d events, got %d", 2*perProducer, total)
	}
}

func TestPushDuringPollIsDeferred(t *testing.T) {
	source, drain := New[int]()
	source.Push(1)

	var first []int
	drain.Poll(func(v int) {
		first = append(first, v)
		if v == 1 {
			source.Push(2)
		}
	})
	assert.Equal(t, []int{1}, first)

	var second []int
	drain.Poll(func(v int) { second = append(second, v) })
	assert.Equal(t, []int{2}, second)
}
