package service

import (
	"context"
	"strconv"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/telemetry"
)

// KnowledgeRepositoryInterface defines the repository interface for
// knowledge base persistence.
type KnowledgeRepositoryInterface interface {
	ListActive(ctx context.Context) ([]*domain.KnowledgeItem, error)
	GetByID(ctx context.Context, id int64) (*domain.KnowledgeItem, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.KnowledgeItem, error)
	UpdateFeedback(ctx context.Context, id int64, usageCount int64, effectiveness float64) error
	CountActive(ctx context.Context) (int64, error)
}

// FeedbackResult is the item state after a feedback signal was folded in.
type FeedbackResult struct {
	ItemID             int64
	UsageCount         int64
	EffectivenessScore float64
}

// FeedbackService folds user feedback into knowledge item effectiveness
// scores. Each signal is applied in its own transaction so concurrent
// signals for the same item never lose updates.
type FeedbackService struct {
	tx TxRunner
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(tx TxRunner) *FeedbackService {
	return &FeedbackService{tx: tx}
}

// Apply reads the item under a row lock, recomputes the running-mean
// effectiveness with the normalized signal value, and writes the new score
// and usage count back. Unknown items return NOT_FOUND.
func (s *FeedbackService) Apply(ctx context.Context, itemID int64, signal domain.FeedbackSignal) (*FeedbackResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "FeedbackService.Apply", telemetry.SpanAttributes{
		KnowledgeID: strconv.FormatInt(itemID, 10),
		Operation:   "feedback",
	})
	defer span.End()

	if itemID <= 0 {
		return nil, domain.ErrMissingFeedbackID
	}

	var result *FeedbackResult
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		item, err := repos.Knowledge().GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		newEffectiveness, newUsage := domain.NextEffectiveness(item.EffectivenessScore, item.UsageCount, signal.Value())
		if err := repos.Knowledge().UpdateFeedback(ctx, itemID, newUsage, newEffectiveness); err != nil {
			return err
		}

		result = &FeedbackResult{
			ItemID:             itemID,
			UsageCount:         newUsage,
			EffectivenessScore: newEffectiveness,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
