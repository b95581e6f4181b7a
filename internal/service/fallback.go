package service

import (
	"context"
	"fmt"
	"log"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/ranking"
)

// ErrorPolicy controls what a failed verse lookup does to the chat request.
type ErrorPolicy string

const (
	// ErrorPolicySwallow logs the lookup failure and lets the request fall
	// through to the apology reply.
	ErrorPolicySwallow ErrorPolicy = "swallow"
	// ErrorPolicyPropagate surfaces the failure as SOURCE_UNAVAILABLE.
	ErrorPolicyPropagate ErrorPolicy = "propagate"
)

// fallbackBaselineScore sits just above the default similarity threshold so
// a fallback verse reads as a weak-but-present match downstream.
const fallbackBaselineScore = 0.51

var fallbackActions = []string{
	"Renungkan makna ayat ini",
	"Perbanyak doa dan dzikir",
}

// QuranRepositoryInterface defines verse lookups for the fallback chain.
type QuranRepositoryInterface interface {
	SearchVerses(ctx context.Context, query string, limit int) ([]*domain.QuranVerse, error)
}

// FallbackResolver finds a Quran verse for queries the knowledge base could
// not answer confidently.
type FallbackResolver struct {
	verses QuranRepositoryInterface
	policy ErrorPolicy
}

// NewFallbackResolver creates a FallbackResolver. An empty policy defaults
// to swallowing lookup failures.
func NewFallbackResolver(verses QuranRepositoryInterface, policy ErrorPolicy) *FallbackResolver {
	if policy == "" {
		policy = ErrorPolicySwallow
	}
	return &FallbackResolver{verses: verses, policy: policy}
}

// Resolve returns a synthetic candidate built from the best-matching verse,
// or nil when no verse matches. A lookup failure is swallowed or propagated
// according to the configured policy.
func (r *FallbackResolver) Resolve(ctx context.Context, query string) (*ranking.ScoredCandidate, error) {
	found, err := r.verses.SearchVerses(ctx, query, 1)
	if err != nil {
		if r.policy == ErrorPolicyPropagate {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeSourceUnavailable, "verse lookup failed", err)
		}
		log.Printf("fallback: verse lookup failed, continuing without: %v", err)
		return nil, nil
	}
	if len(found) == 0 {
		return nil, nil
	}

	verse := found[0]
	item := &domain.KnowledgeItem{
		ID:               verse.AyahID,
		ContentType:      domain.ContentTypeQuranAyah,
		ContentID:        verse.AyahID,
		GuidanceText:     fmt.Sprintf("%s\n\n(QS. %s:%d)", verse.TextIndonesian, verse.SurahName, verse.AyahNumber),
		SuggestedActions: fallbackActions,
	}
	return &ranking.ScoredCandidate{Item: item, Score: fallbackBaselineScore}, nil
}
