package index

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Vectorizer holds a fitted TF-IDF model: a vocabulary capped at a maximum
// size and per-term inverse document frequencies. Documents and queries must
// be normalized (textnorm) before they reach it.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// FitVectorizer fits a TF-IDF model over normalized documents. When the
// corpus has more distinct terms than maxVocabulary, the terms with the
// highest total frequency win; ties break lexicographically so fits are
// reproducible.
func FitVectorizer(docs []string, maxVocabulary int) *Vectorizer {
	totalFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range strings.Fields(doc) {
			totalFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	terms := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totalFreq[terms[i]] != totalFreq[terms[j]] {
			return totalFreq[terms[i]] > totalFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxVocabulary > 0 && len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed IDF; never zero, so every vocabulary term contributes.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// Dims returns the vocabulary size.
func (v *Vectorizer) Dims() int {
	return len(v.idf)
}

// Transform projects a normalized text into the fitted vector space as an
// L2-normalized TF-IDF vector. Out-of-vocabulary terms contribute nothing;
// a fully out-of-vocabulary text yields the zero vector.
func (v *Vectorizer) Transform(text string) *mat.VecDense {
	vec := mat.NewVecDense(maxInt(v.Dims(), 1), nil)
	if v.Dims() == 0 {
		return vec
	}
	for _, term := range strings.Fields(text) {
		if col, ok := v.vocab[term]; ok {
			vec.SetVec(col, vec.AtVec(col)+v.idf[col])
		}
	}
	normalizeVec(vec)
	return vec
}

func normalizeVec(vec *mat.VecDense) {
	norm := mat.Norm(vec, 2)
	if norm > 0 {
		vec.ScaleVec(1/norm, vec)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
