package core

import (
	"castlight/internal/mathutil"
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for per-frame parallel work
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
		case <-wp.quit:
			return
		}
	}
}

// Submit queues a job. It blocks while the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Stop shuts down the worker pool. Calling it more than once is safe.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// ParallelFor runs fn for every index in [start, end) and returns when all are done.
func (wp *WorkerPool) ParallelFor(start, end int, fn func(int)) {
	wp.ParallelForWithContext(context.Background(), start, end, fn)
}

// ParallelForWithContext is ParallelFor with cancellation checked between
// iterations. Each call waits only for its own chunks, so independent callers
// can share the pool.
func (wp *WorkerPool) ParallelForWithContext(ctx context.Context, start, end int, fn func(int)) {
	if start >= end {
		return
	}

	totalWork := end - start
	chunkSize := mathutil.IntMax(1, totalWork/wp.numWorkers)

	var wg sync.WaitGroup
	for i := start; i < end; i += chunkSize {
		chunkStart := i
		chunkEnd := mathutil.IntMin(i+chunkSize, end)
		wg.Add(1)
		wp.Submit(func() {
			defer wg.Done()
			for j := chunkStart; j < chunkEnd; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					fn(j)
				}
			}
		})
	}
	wg.Wait()
}

// ParallelMap applies fn to every item on the pool. Results keep the input order.
func ParallelMap[T any, R any](wp *WorkerPool, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	results := make([]R, len(items))
	if wp == nil {
		for i, item := range items {
			results[i] = fn(item)
		}
		return results
	}
	wp.ParallelFor(0, len(items), func(i int) {
		results[i] = fn(items[i])
	})
	return results
}
