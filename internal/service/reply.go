package service

import (
	"fmt"
	"strings"

	"github.com/mtqmn/qalbu/internal/domain"
)

const (
	replyGreeting = "MasyaAllah, terima kasih atas pertanyaannya."

	// ApologyReply is returned when neither the knowledge base nor the
	// fallback corpus produced anything usable.
	ApologyReply = "Maaf, saya belum menemukan dalil yang sesuai untuk pertanyaan ini. Pertanyaan Anda akan kami catat agar bisa dijawab di kemudian hari."
)

// RenderReply assembles the user-facing reply for a knowledge item: a
// greeting, the guidance text, an action line when the item suggests
// actions, and a source note. Blocks are separated by blank lines.
func RenderReply(item *domain.KnowledgeItem) string {
	parts := []string{replyGreeting}
	if guidance := strings.TrimSpace(item.GuidanceText); guidance != "" {
		parts = append(parts, guidance)
	}
	if len(item.SuggestedActions) > 0 {
		parts = append(parts, "Saran tindakan: "+strings.Join(item.SuggestedActions, "; "))
	}
	parts = append(parts, fmt.Sprintf("Sumber: %s (kb_id: %d)", item.ContentType, item.ID))
	return strings.Join(parts, "\n\n")
}
