package jobs

import (
	"context"
	"log"
)

// Rebuilder rebuilds the index snapshot and reports the new item count.
type Rebuilder interface {
	Rebuild(ctx context.Context) (int, error)
}

// ReloadProcessor periodically refreshes the index snapshot so edits to the
// knowledge base become searchable without a restart.
type ReloadProcessor struct {
	index Rebuilder
}

// NewReloadProcessor creates a new ReloadProcessor instance
func NewReloadProcessor(index Rebuilder) *ReloadProcessor {
	return &ReloadProcessor{index: index}
}

// ProcessJobs runs one reload cycle. A failed rebuild leaves the previous
// snapshot serving and is retried on the next tick.
func (p *ReloadProcessor) ProcessJobs(ctx context.Context) error {
	count, err := p.index.Rebuild(ctx)
	if err != nil {
		return err
	}
	log.Printf("reload: snapshot rebuilt with %d items", count)
	return nil
}
