// Package textnorm normalizes free text for indexing and querying: both
// sides of a search must go through the same pass for term weights to line
// up.
package textnorm

import "strings"

// Indonesian stop words dropped before vectorization. Closed list; keep it
// in sync with nothing — it is the definition.
var stopWords = map[string]struct{}{
	"dan": {}, "yang": {}, "di": {}, "ke": {}, "dari": {}, "untuk": {},
	"itu": {}, "ini": {}, "atau": {}, "pada": {}, "dengan": {}, "karena": {},
	"sebagai": {}, "dalam": {}, "adalah": {}, "apa": {}, "saya": {},
	"aku": {}, "kamu": {}, "kami": {}, "kita": {}, "mereka": {}, "ia": {},
	"dia": {}, "tidak": {}, "ya": {},
}

// Normalize lowercases text, keeps only Latin letters, digits and the Arabic
// block, collapses whitespace and strips stop words. Idempotent; empty or
// all-stop-word input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if keepRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, t := range tokens {
		if _, stop := stopWords[t]; !stop {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// Tokenize returns the normalized terms of text.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return true
	}
	return false
}
