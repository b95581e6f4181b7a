package domain

import (
	"fmt"
	"strings"
)

// ContentType classifies what a knowledge item points at.
type ContentType string

const (
	ContentTypeGuidance  ContentType = "guidance"
	ContentTypeQuranAyah ContentType = "quran_ayah"
	ContentTypeDzikir    ContentType = "dzikir"
	ContentTypeDua       ContentType = "dua"
)

// KnowledgeItem is one retrievable unit of the knowledge base. The external
// store owns it; index snapshots hold read-only copies.
type KnowledgeItem struct {
	ID                 int64
	ContentType        ContentType
	ContentID          int64
	EmotionTrigger     string
	ContextKeywords    string
	GuidanceText       string
	SuggestedActions   []string
	UsageCount         int64
	EffectivenessScore float64
	IsActive           bool
}

// IndexText concatenates the fields that participate in retrieval, skipping
// empty ones. The result is normalized before vectorization.
func (k *KnowledgeItem) IndexText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.EmotionTrigger, k.ContextKeywords, k.GuidanceText} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(k *KnowledgeItem) error {
	if k == nil {
		return fmt.Errorf("knowledge item cannot be nil")
	}
	if k.ID <= 0 {
		return fmt.Errorf("knowledge item ID is required")
	}
	if k.GuidanceText == "" {
		return fmt.Errorf("knowledge item GuidanceText is required")
	}
	if !isValidContentType(k.ContentType) {
		return fmt.Errorf("knowledge item ContentType is invalid: %s", k.ContentType)
	}
	return nil
}

func isValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeGuidance, ContentTypeQuranAyah, ContentTypeDzikir, ContentTypeDua:
		return true
	}
	return false
}
