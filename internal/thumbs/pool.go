package thumbs

import "sync"

// Executor runs background tasks. The scene core and tests take an Executor
// rather than reaching for a process-wide pool, so thumbnail work can run
// synchronously or not at all under test.
type Executor interface {
	Submit(task func())
}

// Pool is a fixed-size worker pool Executor. The task queue is unbounded, so
// Submit never blocks the caller; opening a large folder may enqueue hundreds
// of thumbnail jobs from the UI goroutine at once.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		task()
	}
}

// Submit queues a task and returns immediately. Tasks submitted after Close
// are dropped.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()
	p.cond.Signal()
}

// Close stops accepting tasks and waits for queued work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

// SyncExecutor runs every task inline on the submitting goroutine.
type SyncExecutor struct{}

// Submit runs the task immediately.
func (SyncExecutor) Submit(task func()) { task() }
