// Package runner drives the bot's periodic tasks. Each task runs on its
// own fixed interval and never overlaps itself: run, wait the interval,
// run again.
package runner

import (
	"context"
	"log"
	"sync"
	"time"
)

type Task struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

type Runner struct {
	tasks []Task

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func New(tasks ...Task) *Runner {
	return &Runner{tasks: tasks}
}

func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, task)
	}

	log.Printf("runner started with %d tasks", len(r.tasks))
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.running = false

	r.cancel()
	r.wg.Wait()
	log.Println("runner stopped")
}

func (r *Runner) loop(ctx context.Context, task Task) {
	defer r.wg.Done()

	ticker := time.NewTicker(task.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// A failed pass is retried on the next tick against
			// whatever state is current then.
			if err := task.Run(ctx); err != nil {
				log.Printf("task %s: %v", task.Name, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
