package singlequeue_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notify/pkg/singlequeue"
)

type recorder[T any] struct {
	mu     sync.Mutex
	events []T
}

func (r *recorder[T]) listen(event T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder[T]) got() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.events...)
}

func TestQueue_BuffersUntilSubscribe(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[string]()
	require.NoError(t, q.Emit("e1"))
	require.NoError(t, q.Emit("e2"))
	assert.Equal(t, 2, q.PendingCount())
	assert.False(t, q.Attached())

	rec := &recorder[string]{}
	require.NoError(t, q.Subscribe(rec.listen))

	assert.Equal(t, []string{"e1", "e2"}, rec.got())
	assert.Equal(t, 0, q.PendingCount())
	assert.True(t, q.Attached())
}

func TestQueue_DirectDeliveryWhenAttached(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	var seen []int
	var pendingDuringCall int
	require.NoError(t, q.Subscribe(func(n int) error {
		seen = append(seen, n)
		pendingDuringCall = q.PendingCount()
		return nil
	}))

	require.NoError(t, q.Emit(7))

	assert.Equal(t, []int{7}, seen, "listener runs before Emit returns")
	assert.Equal(t, 0, pendingDuringCall)
	assert.Equal(t, 0, q.PendingCount())
}

func TestQueue_UnsubscribeResumesBuffering(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[string]()
	first := &recorder[string]{}
	require.NoError(t, q.Subscribe(first.listen))
	require.NoError(t, q.Emit("delivered"))

	q.Unsubscribe()
	require.NoError(t, q.Emit("queued"))

	assert.Equal(t, 1, q.PendingCount())
	assert.Equal(t, []string{"delivered"}, first.got())

	second := &recorder[string]{}
	require.NoError(t, q.Subscribe(second.listen))
	assert.Equal(t, []string{"queued"}, second.got())
	assert.Equal(t, 0, q.PendingCount())
}

func TestQueue_UnsubscribeIsIdempotent(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	require.NoError(t, q.Emit(1))
	require.NoError(t, q.Subscribe(func(int) error { return nil }))

	q.Unsubscribe()
	before := q.Stats()

	assert.NotPanics(t, q.Unsubscribe)
	assert.Equal(t, before, q.Stats())
	assert.False(t, q.Attached())

	// Never attached.
	fresh := singlequeue.New[int]()
	assert.NotPanics(t, fresh.Unsubscribe)
	assert.False(t, fresh.Attached())
}

func TestQueue_SubscribeReplacesListener(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	old := &recorder[int]{}
	replacement := &recorder[int]{}

	require.NoError(t, q.Subscribe(old.listen))
	require.NoError(t, q.Emit(1))
	require.NoError(t, q.Subscribe(replacement.listen))
	require.NoError(t, q.Emit(2))

	assert.Equal(t, []int{1}, old.got())
	assert.Equal(t, []int{2}, replacement.got())
}

func TestQueue_FlushFailureStopsFlush(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Emit(i))
	}

	errBoom := errors.New("boom")
	var seen []int
	err := q.Subscribe(func(n int) error {
		seen = append(seen, n)
		if n == 2 {
			return errBoom
		}
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, singlequeue.ErrListenerFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []int{1, 2}, seen)
	assert.True(t, q.Attached(), "listener stays attached")
	assert.Equal(t, 1, q.PendingCount(), "events after the failed one stay queued")

	// The remaining backlog goes out ahead of the next event.
	require.NoError(t, q.Emit(4))
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, 0, q.PendingCount())
}

func TestQueue_EmitFailureKeepsListenerAttached(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[string]()
	var calls []string
	require.NoError(t, q.Subscribe(func(s string) error {
		calls = append(calls, s)
		if s == "bad" {
			return errors.New("consumer rejected")
		}
		return nil
	}))

	err := q.Emit("bad")
	require.ErrorIs(t, err, singlequeue.ErrListenerFailed)
	assert.True(t, q.Attached())
	assert.Equal(t, 0, q.PendingCount(), "failed event is not queued again")

	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, q.Emit(s))
		assert.Equal(t, 0, q.PendingCount())
	}
	assert.Equal(t, []string{"bad", "a", "b", "c"}, calls)

	stats := q.Stats()
	assert.Equal(t, int64(4), stats.Emitted)
	assert.Equal(t, int64(3), stats.Delivered)
	assert.Equal(t, int64(1), stats.Failed)
	assert.True(t, stats.Attached)
}

func TestQueue_PanicIsRecovered(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	var calls atomic.Int32
	require.NoError(t, q.Subscribe(func(n int) error {
		calls.Add(1)
		if n == 1 {
			panic("consumer exploded")
		}
		return nil
	}))

	var err error
	require.NotPanics(t, func() { err = q.Emit(1) })
	assert.ErrorIs(t, err, singlequeue.ErrListenerPanic)
	assert.Contains(t, err.Error(), "consumer exploded")
	assert.Equal(t, 0, q.PendingCount())
	assert.True(t, q.Attached())

	require.NoError(t, q.Emit(2))
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueue_ReentrantEmitKeepsOrder(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	var seen []int
	require.NoError(t, q.Subscribe(func(n int) error {
		seen = append(seen, n)
		if n == 1 {
			// Queued behind the current delivery, drained before Emit(1) returns.
			require.NoError(t, q.Emit(2))
			require.NoError(t, q.Emit(3))
		}
		return nil
	}))

	require.NoError(t, q.Emit(1))
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 0, q.PendingCount())
}

func TestQueue_UnsubscribeDuringFlush(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	for i := 1; i <= 4; i++ {
		require.NoError(t, q.Emit(i))
	}

	var seen []int
	require.NoError(t, q.Subscribe(func(n int) error {
		seen = append(seen, n)
		if n == 2 {
			q.Unsubscribe()
		}
		return nil
	}))

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, q.PendingCount())
	assert.False(t, q.Attached())
}

func TestQueue_ReentrantSubscribeTakesOverFlush(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[string]()
	require.NoError(t, q.Emit("a"))
	require.NoError(t, q.Emit("b"))

	replacement := &recorder[string]{}
	var first []string
	err := q.Subscribe(func(s string) error {
		first = append(first, s)
		require.NoError(t, q.Subscribe(replacement.listen))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, []string{"b"}, replacement.got(), "the running flush continues with the replacement")
	assert.True(t, q.Attached())
	assert.Equal(t, 0, q.PendingCount())
}

func TestQueue_SubscribeWaitsForDeliveryInProgress(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[string]()

	entered := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, q.Subscribe(func(string) error {
		close(entered)
		<-release
		return nil
	}))

	emitDone := make(chan error, 1)
	go func() { emitDone <- q.Emit("a") }()
	<-entered

	// Detach and queue while "a" is still being delivered.
	q.Unsubscribe()
	require.NoError(t, q.Emit("b"))
	require.Equal(t, 1, q.PendingCount())

	errRejected := errors.New("rejected")
	next := &recorder[string]{}
	subDone := make(chan error, 1)
	go func() {
		subDone <- q.Subscribe(func(s string) error {
			_ = next.listen(s)
			return errRejected
		})
	}()

	select {
	case err := <-subDone:
		t.Fatalf("Subscribe returned before the running delivery finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	require.NoError(t, <-emitDone)
	err := <-subDone
	require.ErrorIs(t, err, errRejected, "flush error goes to the Subscribe caller")
	assert.Equal(t, []string{"b"}, next.got())
	assert.Equal(t, 0, q.PendingCount())
	assert.True(t, q.Attached())
}

func TestQueue_SubscribeFlushesBacklogPresentAtAttach(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	for i := range 100 {
		require.NoError(t, q.Emit(i))
	}

	var (
		mu      sync.Mutex
		seen    []int
		atFlush int
	)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 100; i < 200; i++ {
			assert.NoError(t, q.Emit(i))
		}
	}()

	require.NoError(t, q.Subscribe(func(n int) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, n)
		return nil
	}))
	mu.Lock()
	atFlush = len(seen)
	mu.Unlock()
	assert.Equal(t, 0, q.PendingCount(), "Subscribe returns with the backlog flushed")
	assert.GreaterOrEqual(t, atFlush, 100)

	wg.Wait()
	assert.Equal(t, 0, q.PendingCount())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 200)
	for i, n := range seen {
		require.Equal(t, i, n)
	}
}

func TestQueue_SubscribeNilPanics(t *testing.T) {
	t.Parallel()

	q := singlequeue.New[int]()
	assert.Panics(t, func() { _ = q.Subscribe(nil) })
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	t.Parallel()

	const (
		producers   = 8
		perProducer = 250
	)

	type msg struct {
		producer int
		seq      int
	}

	q := singlequeue.New[msg]()

	var (
		inFlight   atomic.Int32
		overlapped atomic.Bool
		mu         sync.Mutex
		bySender   = make(map[int][]int)
	)
	listener := func(m msg) error {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		defer inFlight.Add(-1)

		mu.Lock()
		bySender[m.producer] = append(bySender[m.producer], m.seq)
		mu.Unlock()
		return nil
	}

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				assert.NoError(t, q.Emit(msg{producer: p, seq: i}))
			}
		}()
	}

	// Attach while producers are running.
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, q.Subscribe(listener))
	}()

	wg.Wait()

	assert.False(t, overlapped.Load(), "listener must never run concurrently")
	assert.Equal(t, 0, q.PendingCount())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bySender, producers)
	for p, seqs := range bySender {
		require.Len(t, seqs, perProducer)
		for i, seq := range seqs {
			require.Equal(t, i, seq, "producer %d delivered out of order", p)
		}
	}
}

func TestQueue_BacklogWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	q := singlequeue.New[int](singlequeue.WithLogger(log), singlequeue.WithBacklogWarning(2))

	for i := range 5 {
		require.NoError(t, q.Emit(i))
	}

	assert.Equal(t, 2, strings.Count(buf.String(), "backlog is growing"))
	assert.Contains(t, buf.String(), "pending=4")
}
