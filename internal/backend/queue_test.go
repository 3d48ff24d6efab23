package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePreservesOrder(t *testing.T) {
	q := NewQueue[int]()
	for i := 0; i < 100; i++ {
		require.True(t, q.Push(i))
	}
	assert.Equal(t, 100, q.Len())
	for i := 0; i < 100; i++ {
		got, err := q.Pop(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestQueuePerProducerOrderWithManyProducers(t *testing.T) {
	q := NewQueue[[2]int]()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	last := map[int]int{0: -1, 1: -1, 2: -1, 3: -1}
	for i := 0; i < 1000; i++ {
		item, err := q.Pop(context.Background())
		require.NoError(t, err)
		require.Greater(t, item[1], last[item[0]])
		last[item[0]] = item[1]
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := NewQueue[string]()
	got := make(chan string, 1)
	go func() {
		item, err := q.Pop(context.Background())
		if err == nil {
			got <- item
		}
	}()

	select {
	case <-got:
		t.Fatal("pop returned before push")
	case <-time.After(20 * time.Millisecond):
	}
	q.Push("hello")
	select {
	case item := <-got:
		assert.Equal(t, "hello", item)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestQueueCloseDeliversRemainingThenErrors(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Close()

	assert.False(t, q.Push(3))
	assert.True(t, q.Closed())

	first, err := q.Pop(context.Background())
	require.NoError(t, err)
	second, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{first, second})

	_, err = q.Pop(context.Background())
	assert.True(t, errors.Is(err, ErrQueueClosed))
}

func TestQueueCloseWakesBlockedPop(t *testing.T) {
	q := NewQueue[int]()
	done := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not wake pop")
	}
}

func TestQueuePopHonoursContext(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	assert.Equal(t, []int{1, 2}, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}
