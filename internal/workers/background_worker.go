// Package workers runs background tasks that stop with the server.
package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a unit of background work. An Interval of zero runs it once.
type Task struct {
	Name     string
	Handler  func(ctx context.Context) error
	Interval time.Duration
}

// BackgroundWorker runs tasks until Shutdown cancels them.
type BackgroundWorker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending []Task
	started bool
}

// NewBackgroundWorker creates a worker whose tasks stop when ctx is done.
func NewBackgroundWorker(ctx context.Context) *BackgroundWorker {
	cctx, cancel := context.WithCancel(ctx)
	return &BackgroundWorker{ctx: cctx, cancel: cancel}
}

// Add queues a task. Tasks added after Start begin immediately.
func (bw *BackgroundWorker) Add(task Task) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		bw.run(task)
		return
	}
	bw.pending = append(bw.pending, task)
}

// AddPeriodicTask queues handler to run now and then every interval.
func (bw *BackgroundWorker) AddPeriodicTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	bw.Add(Task{Name: name, Handler: handler, Interval: interval})
}

// AddOneTimeTask queues handler to run once.
func (bw *BackgroundWorker) AddOneTimeTask(name string, handler func(ctx context.Context) error) {
	bw.Add(Task{Name: name, Handler: handler})
}

// Start runs every queued task.
func (bw *BackgroundWorker) Start() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		return
	}
	bw.started = true

	for _, task := range bw.pending {
		bw.run(task)
	}
	bw.pending = nil
}

// run must be called with mu held.
func (bw *BackgroundWorker) run(task Task) {
	bw.wg.Add(1)
	go func(t Task) {
		defer bw.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in task %s: %v", t.Name, r)
			}
		}()

		if err := t.Handler(bw.ctx); err != nil {
			log.Printf("Background task '%s' error: %v", t.Name, err)
		}

		if t.Interval <= 0 {
			return
		}

		ticker := time.NewTicker(t.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-bw.ctx.Done():
				log.Printf("Background task '%s' stopping", t.Name)
				return
			case <-ticker.C:
				if err := t.Handler(bw.ctx); err != nil {
					log.Printf("Background task '%s' error: %v", t.Name, err)
				}
			}
		}
	}(task)
}

// Shutdown cancels all tasks and waits for them to return.
func (bw *BackgroundWorker) Shutdown() {
	log.Println("Shutting down background tasks...")
	bw.cancel()
	bw.wg.Wait()
	log.Println("All background tasks stopped.")
}
