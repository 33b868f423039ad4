package workerpool

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCollectsAllResults(t *testing.T) {
	p := New(Config{WorkerCount: 4})
	defer p.Close()

	b := p.NewBatch(8)
	for i := 0; i < 100; i++ {
		i := i
		b.Submit(func() any { return i })
	}

	results := b.Wait()
	require.Len(t, results, 100)

	values := make([]int, 0, len(results))
	for _, r := range results {
		values = append(values, r.(int))
	}
	sort.Ints(values)
	for i, v := range values {
		assert.Equal(t, i, v)
	}
}

func TestBatchSmallBufferDoesNotStall(t *testing.T) {
	p := New(Config{WorkerCount: 2, QueueSize: 2})
	defer p.Close()

	b := p.NewBatch(1)
	for i := 0; i < 50; i++ {
		b.Submit(func() any { return struct{}{} })
	}

	assert.Len(t, b.Wait(), 50)
}

func TestPoolServesConcurrentBatches(t *testing.T) {
	p := New(Config{WorkerCount: 4})
	defer p.Close()

	var counter atomic.Int64
	first := p.NewBatch(4)
	second := p.NewBatch(4)
	for i := 0; i < 20; i++ {
		first.Submit(func() any { return counter.Add(1) })
		second.Submit(func() any { return counter.Add(1) })
	}

	assert.Len(t, first.Wait(), 20)
	assert.Len(t, second.Wait(), 20)
	assert.Equal(t, int64(40), counter.Load())
}

func TestEmptyBatch(t *testing.T) {
	p := New(Config{})
	defer p.Close()

	assert.Empty(t, p.NewBatch(1).Wait())
}

func TestDefaults(t *testing.T) {
	p := New(Config{})
	defer p.Close()

	assert.Greater(t, p.config.WorkerCount, 0)
	assert.Greater(t, p.config.QueueSize, 0)
}
