// Package workerpool runs independent jobs on a fixed set of workers.
// The scan command uses it to check many PNG files concurrently.
package workerpool

import (
	"runtime"
	"sync"
)

// Pool feeds a shared task queue to its workers. One pool can serve
// several batches at once.
type Pool struct {
	config Config
	tasks  chan task
}

// Config sizes the pool. Zero values pick defaults.
type Config struct {
	// WorkerCount is the number of worker goroutines. Defaults to
	// three per CPU; the jobs are I/O heavy.
	WorkerCount int

	// QueueSize is the shared task buffer. Submit blocks while it is
	// full.
	QueueSize int
}

type task struct {
	run   func() any
	batch *Batch
}

// New starts the workers and returns the pool. Close releases them.
func New(config Config) *Pool {
	if config.WorkerCount < 1 {
		config.WorkerCount = runtime.NumCPU() * 3
	}
	if config.QueueSize < 1 {
		config.QueueSize = 1024
	}

	p := &Pool{
		config: config,
		tasks:  make(chan task, config.QueueSize),
	}
	for i := 0; i < config.WorkerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.tasks {
		t.batch.results <- t.run()
		t.batch.wg.Done()
	}
}

// Close stops the workers once the queued tasks have drained. No batch
// may submit afterwards.
func (p *Pool) Close() {
	close(p.tasks)
}

// Batch groups jobs whose results are collected together. A collector
// goroutine drains results as they complete, so workers never block on
// a full batch.
type Batch struct {
	pool      *Pool
	results   chan any
	wg        sync.WaitGroup
	collected []any
	drained   chan struct{}
}

// NewBatch opens a batch on the pool. buffer smooths bursts of results;
// any positive value is correct.
func (p *Pool) NewBatch(buffer int) *Batch {
	if buffer < 1 {
		buffer = 1
	}
	b := &Batch{
		pool:    p,
		results: make(chan any, buffer),
		drained: make(chan struct{}),
	}

	go func() {
		for r := range b.results {
			b.collected = append(b.collected, r)
		}
		close(b.drained)
	}()

	return b
}

// Submit queues one job. It blocks while the pool's task queue is full.
func (b *Batch) Submit(job func() any) {
	b.wg.Add(1)
	b.pool.tasks <- task{run: job, batch: b}
}

// Wait blocks until every submitted job has finished and returns the
// results in completion order. The batch is spent afterwards.
func (b *Batch) Wait() []any {
	b.wg.Wait()
	close(b.results)
	<-b.drained
	return b.collected
}
