package genserver

import (
	"context"
	"sync"
)

// Dispatcher is the collaborator contract a System exposes to
// DispatchedMailbox (spec.md §4.6): something that runs a task on one of
// its workers, eventually. The core never owns, creates, or tears down a
// Dispatcher — only System does.
type Dispatcher interface {
	// Dispatch runs task on some worker goroutine. It does not block
	// waiting for task to complete.
	Dispatch(task func())
}

// WorkerPool is a fixed-size goroutine pool shared by every
// DispatchedMailbox attached to the same System. Grounded on
// other_examples/79ef9b71_jasonthorsness-ginprov__server-worker_pool.go.go:
// a buffered work channel drained by a fixed number of worker goroutines,
// torn down via close+Wait.
type WorkerPool struct {
	workCh chan func()
	wg     sync.WaitGroup
}

// NewWorkerPool starts a pool of numWorkers goroutines pulling from a work
// queue with the given buffer capacity. Both arguments are clamped to at
// least 1.
func NewWorkerPool(numWorkers, queueCapacity int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueCapacity < 1 {
		queueCapacity = 1
	}

	p := &WorkerPool{
		workCh: make(chan func(), queueCapacity),
	}

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.workerLoop()
	}

	return p
}

func (p *WorkerPool) workerLoop() {
	defer p.wg.Done()

	for task := range p.workCh {
		task()
	}
}

// Dispatch implements Dispatcher. It blocks until the task has been
// enqueued (the pool's work queue is a bounded channel; a full queue
// applies natural backpressure to dispatching mailboxes rather than
// dropping work).
func (p *WorkerPool) Dispatch(task func()) {
	p.workCh <- task
}

// Close stops the pool from accepting further work and blocks until every
// enqueued task has completed.
func (p *WorkerPool) Close() {
	close(p.workCh)
	p.wg.Wait()
}

// SystemConfig holds configuration for a System, grounded on the teacher's
// SystemConfig/DefaultConfig (internal/baselib/actor/system.go).
type SystemConfig struct {
	// DispatcherWorkers is the number of goroutines in the shared
	// dispatcher pool.
	DispatcherWorkers int

	// DispatcherQueueCapacity is the buffer capacity of the shared
	// dispatcher's work queue.
	DispatcherQueueCapacity int
}

// DefaultSystemConfig returns sane defaults for SystemConfig.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		DispatcherWorkers:       4,
		DispatcherQueueCapacity: 256,
	}
}

// System is the collaborator a Server attaches to in order to trade its
// ThreadedMailbox for a DispatchedMailbox. Per spec.md §4.6 and §9, the
// core consumes only System.Dispatcher(); everything else a "system" might
// offer in a larger application (service discovery, supervision,
// persistence) is explicitly out of scope here.
type System struct {
	dispatcher *WorkerPool
}

// NewSystem creates a System using DefaultSystemConfig.
func NewSystem() *System {
	return NewSystemWithConfig(DefaultSystemConfig())
}

// NewSystemWithConfig creates a System whose shared dispatcher is sized per
// cfg.
func NewSystemWithConfig(cfg SystemConfig) *System {
	workers := cfg.DispatcherWorkers
	if workers < 1 {
		workers = 1
	}

	queueCap := cfg.DispatcherQueueCapacity
	if queueCap < 1 {
		queueCap = 1
	}

	return &System{
		dispatcher: NewWorkerPool(workers, queueCap),
	}
}

// Dispatcher returns the System's shared dispatcher.
func (s *System) Dispatcher() Dispatcher {
	return s.dispatcher
}

// Shutdown stops the System's shared dispatcher, waiting (bounded by ctx)
// for in-flight dispatched tasks to finish. This is a supplemental
// operation (SPEC_FULL.md): the core doesn't own server lifecycles beyond
// their mailboxes, but the dispatcher itself still needs a teardown path.
func (s *System) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		s.dispatcher.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
