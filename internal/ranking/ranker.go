// Package ranking turns an index snapshot and a query into an ordered list
// of scored candidates: raw cosine similarity first, then a heuristic boost
// pass over non-lexical signals.
package ranking

import (
	"sort"
	"strings"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/index"
)

const (
	emotionBoost          = 0.15
	effectivenessMaxBoost = 0.10
	quranAyahBoost        = 0.20
)

// ScoredCandidate pairs a knowledge item with its working score. Transient:
// created per query, discarded after the response.
type ScoredCandidate struct {
	Item  *domain.KnowledgeItem
	Score float64
}

// Search returns the top-k items by cosine similarity against the snapshot,
// ties broken by ascending item id. Candidates with similarity <= 0 are
// dropped. An empty query or empty snapshot yields an empty list.
func Search(snap *index.Snapshot, query string, k int) []ScoredCandidate {
	sims := snap.Similarities(query)
	if len(sims) == 0 || k <= 0 {
		return nil
	}

	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if sims[ia] != sims[ib] {
			return sims[ia] > sims[ib]
		}
		return snap.Item(ia).ID < snap.Item(ib).ID
	})

	results := make([]ScoredCandidate, 0, k)
	for _, i := range order {
		if len(results) == k {
			break
		}
		if sims[i] <= 0 {
			break
		}
		results = append(results, ScoredCandidate{Item: snap.Item(i), Score: sims[i]})
	}
	return results
}

// Boost re-ranks candidates by adding contextual signals to each score:
// emotion-trigger match, clamped historical effectiveness, and a flat bias
// toward Quran ayah content. Pure: returns a new slice, stable sort, scores
// only ever grow and may exceed 1.0.
func Boost(candidates []ScoredCandidate, userEmotion string) []ScoredCandidate {
	boosted := make([]ScoredCandidate, len(candidates))
	copy(boosted, candidates)

	emotion := strings.ToLower(strings.TrimSpace(userEmotion))
	for i := range boosted {
		item := boosted[i].Item
		trigger := strings.ToLower(item.EmotionTrigger)
		if emotion != "" && trigger != "" && strings.Contains(trigger, emotion) {
			boosted[i].Score += emotionBoost
		}
		boosted[i].Score += clamp01(item.EffectivenessScore) * effectivenessMaxBoost
		if item.ContentType == domain.ContentTypeQuranAyah {
			boosted[i].Score += quranAyahBoost
		}
	}

	sort.SliceStable(boosted, func(a, b int) bool {
		return boosted[a].Score > boosted[b].Score
	})
	return boosted
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
