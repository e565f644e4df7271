package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_Do_CachesResult(t *testing.T) {
	m, err := New[string](4)
	require.NoError(t, err)

	calls := 0
	fn := func() (string, error) {
		calls++
		return "value", nil
	}

	v1, err := m.Do("k", fn)
	require.NoError(t, err)
	v2, err := m.Do("k", fn)
	require.NoError(t, err)

	assert.Equal(t, "value", v1)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)

	hits, misses := m.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestMemo_Do_ErrorNotCached(t *testing.T) {
	m, err := New[int](4)
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, boom
	}

	_, err = m.Do("k", fail)
	assert.ErrorIs(t, err, boom)
	_, err = m.Do("k", fail)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, m.Len())
}

func TestMemo_Bounded(t *testing.T) {
	m, err := New[int](2)
	require.NoError(t, err)

	for i, k := range []string{"a", "b", "c"} {
		_, err := m.Do(k, func() (int, error) { return i, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, 2, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok, "least recently used entry should be evicted")
	v, ok := m.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestMemo_Do_CollapsesConcurrentCalls(t *testing.T) {
	m, err := New[string](4)
	require.NoError(t, err)

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func() (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Do("k", fn)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestMemo_Do_SharedErrorNotCached(t *testing.T) {
	m, err := New[string](4)
	require.NoError(t, err)

	release := make(chan struct{})
	var calls atomic.Int32
	fn := func() (string, error) {
		if calls.Add(1) == 1 {
			<-release
			return "", context.Canceled
		}
		return "fresh", nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Do("k", fn)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// 等待中的调用方共享首个调用的错误
	for _, e := range errs {
		assert.ErrorIs(t, e, context.Canceled)
	}
	assert.Equal(t, 0, m.Len())

	v, err := m.Do("k", fn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New[int](0)
	assert.Error(t, err)
}
