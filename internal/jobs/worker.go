package jobs

import (
	"context"
	"log"
	"time"
)

// JobProcessor defines the interface for processing one work cycle.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker drives a JobProcessor on a fixed interval until stopped.
type Worker struct {
	name      string
	processor JobProcessor
	interval  time.Duration
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewWorker creates a new Worker instance. The name only appears in logs.
func NewWorker(name string, processor JobProcessor, interval time.Duration) *Worker {
	return &Worker{
		name:      name,
		processor: processor,
		interval:  interval,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}
}

// Start begins the worker's ticker loop. Blocks until the context is
// cancelled or Stop is called; run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("%s: worker started, interval %v", w.name, w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s: worker stopped, context cancelled", w.name)
			return
		case <-w.stopChan:
			log.Printf("%s: worker stopped, stop signal received", w.name)
			return
		case <-ticker.C:
			if err := w.processor.ProcessJobs(ctx); err != nil {
				log.Printf("%s: processing failed: %v", w.name, err)
			}
		}
	}
}

// Stop signals the worker and waits for the loop to exit.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Printf("%s: worker shutdown complete", w.name)
}
