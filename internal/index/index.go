// Package index maintains the in-memory vector-space snapshot of the
// knowledge base. Readers always see a complete snapshot; rebuilds replace
// it atomically and a failed rebuild leaves the previous one published.
package index

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mtqmn/qalbu/internal/domain"
)

// KnowledgeSource fetches the active knowledge rows to index, ordered by id
// ascending.
type KnowledgeSource interface {
	ListActive(ctx context.Context) ([]*domain.KnowledgeItem, error)
}

// Index owns the current snapshot reference. Reads are lock-free; rebuilds
// serialize on a mutex so at most one build runs at a time.
type Index struct {
	source        KnowledgeSource
	maxVocabulary int

	buildMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an Index that starts empty. Call Rebuild to load it.
func New(source KnowledgeSource, maxVocabulary int) *Index {
	ix := &Index{
		source:        source,
		maxVocabulary: maxVocabulary,
	}
	ix.current.Store(NewSnapshot(nil, maxVocabulary))
	return ix
}

// Rebuild fetches all active rows and publishes a brand-new snapshot,
// returning the item count. On fetch failure the previously published
// snapshot stays in effect and a SOURCE_UNAVAILABLE error is returned.
// Concurrent callers run one at a time; each gets its own rebuild's result.
func (ix *Index) Rebuild(ctx context.Context) (int, error) {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	items, err := ix.source.ListActive(ctx)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeSourceUnavailable, "knowledge base rebuild failed", err)
	}

	snapshot := NewSnapshot(items, ix.maxVocabulary)
	ix.current.Store(snapshot)
	return snapshot.Len(), nil
}

// Current returns the latest published snapshot. Never blocks, never nil.
func (ix *Index) Current() *Snapshot {
	return ix.current.Load()
}
