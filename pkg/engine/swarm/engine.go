// Package swarm runs scan tasks on an adaptive worker pool. A directory
// listing storm can flatten a NameNode, so the pool sizes itself from
// latency and throttle feedback instead of a fixed fan-out.
package swarm

import (
	"context"
	"sync"
	"time"
)

// Task represents a unit of work for the swarm.
type Task func(ctx context.Context) error

// Engine manages the worker pool and concurrency.
type Engine struct {
	aimd       *AIMD
	tasks      chan Task
	wg         sync.WaitGroup
	quit       chan struct{}
	active     int
	mu         sync.Mutex
	stats      Stats
	isThrottle func(error) bool
}

// Stats holds runtime statistics for the engine.
type Stats struct {
	ActiveWorkers  int
	Concurrency    int
	TasksCompleted int64
}

// NewEngine creates a pool tuned for NameNode listing traffic. isThrottle
// classifies task errors as backpressure; nil means no error ever throttles.
func NewEngine(isThrottle func(error) bool) *Engine {
	if isThrottle == nil {
		isThrottle = func(error) bool { return false }
	}
	return &Engine{
		aimd:       NewAIMD(8, 2, 64),
		tasks:      make(chan Task, 1000),
		quit:       make(chan struct{}),
		isThrottle: isThrottle,
	}
}

// SetMaxWorkers caps the adaptive window at n. Must be called before
// Start; the loop reads the AIMD state without locking.
func (e *Engine) SetMaxWorkers(n int) {
	if n <= 0 {
		return
	}
	e.aimd = NewAIMD(min(8, n), min(2, n), n)
}

// Start begins the worker loop. A stopped engine can be started again;
// every cycle gets its own quit channel.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	e.quit = make(chan struct{})
	quit := e.quit
	e.mu.Unlock()
	go e.loop(ctx, quit)
}

// Submit adds a task to the queue.
func (e *Engine) Submit(t Task) {
	e.tasks <- t
}

// Stop signals workers to exit and waits for them.
func (e *Engine) Stop() {
	e.mu.Lock()
	quit := e.quit
	e.mu.Unlock()
	close(quit)
	e.wg.Wait()
}

// GetStats returns current engine stats.
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		ActiveWorkers:  e.active,
		Concurrency:    e.aimd.GetConcurrency(),
		TasksCompleted: e.stats.TasksCompleted,
	}
}

func (e *Engine) loop(ctx context.Context, quit chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case <-ticker.C:
			target := e.aimd.GetConcurrency()
			current := e.activeCount()

			if current < target {
				spawn := target - current
				for i := 0; i < spawn; i++ {
					e.wg.Add(1)
					go e.worker(ctx, quit)
				}
			}
			// Excess workers exit on their own once they observe the
			// lowered target.
		}
	}
}

func (e *Engine) activeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) worker(ctx context.Context, quit chan struct{}) {
	e.mu.Lock()
	e.active++
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.active--
		e.mu.Unlock()
		e.wg.Done()
	}()

	for {
		if e.activeCount() > e.aimd.GetConcurrency() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case task := <-e.tasks:
			start := time.Now()
			err := task(ctx)
			latency := time.Since(start)

			e.aimd.Feedback(latency, err != nil && e.isThrottle(err))

			e.mu.Lock()
			e.stats.TasksCompleted++
			e.mu.Unlock()
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
