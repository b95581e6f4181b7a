package index

import (
	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/textnorm"
	"gonum.org/v1/gonum/mat"
)

// Snapshot is an immutable, fully-built copy of the searchable knowledge
// base: items in store order (id ascending), a fitted vectorizer, and the
// per-item document matrix. Row i of the matrix belongs to items[i]. A
// snapshot is built completely before anyone can observe it and never
// mutated afterwards.
type Snapshot struct {
	items      []*domain.KnowledgeItem
	vectorizer *Vectorizer
	matrix     *mat.Dense
}

// NewSnapshot builds a snapshot from knowledge items. Items must already be
// ordered by id ascending. An empty item list yields a snapshot whose
// searches return nothing.
func NewSnapshot(items []*domain.KnowledgeItem, maxVocabulary int) *Snapshot {
	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = textnorm.Normalize(item.IndexText())
	}

	s := &Snapshot{
		items:      items,
		vectorizer: FitVectorizer(docs, maxVocabulary),
	}
	if len(items) == 0 || s.vectorizer.Dims() == 0 {
		return s
	}

	s.matrix = mat.NewDense(len(items), s.vectorizer.Dims(), nil)
	for i, doc := range docs {
		row := s.vectorizer.Transform(doc)
		s.matrix.SetRow(i, row.RawVector().Data)
	}
	return s
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// Item returns the item at row i.
func (s *Snapshot) Item(i int) *domain.KnowledgeItem {
	return s.items[i]
}

// Similarities computes the cosine similarity of a raw query against every
// item, in row order. Both sides are L2-normalized so the matrix-vector
// product is the cosine. Returns nil when the query normalizes to nothing
// or the snapshot is empty.
func (s *Snapshot) Similarities(query string) []float64 {
	normalized := textnorm.Normalize(query)
	if normalized == "" || s.matrix == nil {
		return nil
	}

	queryVec := s.vectorizer.Transform(normalized)
	var sims mat.VecDense
	sims.MulVec(s.matrix, queryVec)
	return sims.RawVector().Data
}
