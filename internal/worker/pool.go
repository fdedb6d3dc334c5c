package worker

import (
	"log/slog"
	"sync"

	"github.com/baharkarakas/debtme-backend/internal/metrics"
)

type task func()

// Pool runs fire-and-forget side effects (audit writes) off the request path.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan task
	mu     sync.RWMutex
	closed bool
}

func NewPool(n int) *Pool {
	if n <= 0 { n = 1 }
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Dec()
				run(job)
			}
		}()
	}
	return p
}

func run(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("worker job panic", "err", rec)
		}
	}()
	job()
}

// Submit queues f; after Stop it runs f inline so nothing is lost.
func (p *Pool) Submit(f task) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		run(f)
		return
	}
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop drains queued jobs and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
