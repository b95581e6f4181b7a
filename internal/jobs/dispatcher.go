package jobs

import (
	"context"
	"log"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/service"
)

// FeedbackApplier folds one feedback signal into the store.
type FeedbackApplier interface {
	Apply(ctx context.Context, itemID int64, signal domain.FeedbackSignal) (*service.FeedbackResult, error)
}

// FeedbackEvent is one queued signal.
type FeedbackEvent struct {
	ItemID int64
	Signal domain.FeedbackSignal
}

// FeedbackDispatcher applies feedback signals off the request path. Enqueue
// never blocks: when the queue is full the signal is dropped and counted as
// a log line, since usage bumps are advisory.
type FeedbackDispatcher struct {
	applier  FeedbackApplier
	queue    chan FeedbackEvent
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewFeedbackDispatcher creates a dispatcher with the given queue capacity.
func NewFeedbackDispatcher(applier FeedbackApplier, queueSize int) *FeedbackDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &FeedbackDispatcher{
		applier:  applier,
		queue:    make(chan FeedbackEvent, queueSize),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Dispatch queues a signal without blocking the caller.
func (d *FeedbackDispatcher) Dispatch(itemID int64, signal domain.FeedbackSignal) {
	select {
	case d.queue <- FeedbackEvent{ItemID: itemID, Signal: signal}:
	default:
		log.Printf("feedback: queue full, dropping signal for item %d", itemID)
	}
}

// Start consumes the queue until the context is cancelled or Stop is
// called. Apply failures are logged and absorbed; a signal for a deleted
// item is a no-op.
func (d *FeedbackDispatcher) Start(ctx context.Context) {
	defer close(d.doneChan)

	log.Printf("feedback: dispatcher started, queue capacity %d", cap(d.queue))

	for {
		select {
		case <-ctx.Done():
			log.Println("feedback: dispatcher stopped, context cancelled")
			return
		case <-d.stopChan:
			log.Println("feedback: dispatcher stopped, stop signal received")
			return
		case event := <-d.queue:
			if _, err := d.applier.Apply(ctx, event.ItemID, event.Signal); err != nil {
				log.Printf("feedback: apply failed for item %d: %v", event.ItemID, err)
			}
		}
	}
}

// Stop signals the dispatcher and waits for the loop to exit. Signals still
// queued are discarded.
func (d *FeedbackDispatcher) Stop() {
	close(d.stopChan)
	<-d.doneChan
	log.Println("feedback: dispatcher shutdown complete")
}
