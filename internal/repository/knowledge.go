package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtqmn/qalbu/internal/domain"
)

type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

const knowledgeColumns = `id, content_type, content_id, emotion_trigger, context_keywords,
	 guidance_text, suggested_actions, usage_count, effectiveness_score, is_active`

// ListActive returns all active knowledge rows ordered by id ascending, the
// order index snapshots rely on.
func (r *KnowledgeRepository) ListActive(ctx context.Context) ([]*domain.KnowledgeItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+knowledgeColumns+`
		 FROM ai_knowledge_base WHERE is_active ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id int64) (*domain.KnowledgeItem, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+knowledgeColumns+`
		 FROM ai_knowledge_base WHERE id = $1`,
		id,
	)
	return scanKnowledgeRow(row)
}

// GetForUpdate reads one row under a row lock. Call inside a transaction;
// the lock holds until commit so concurrent feedback never loses updates.
func (r *KnowledgeRepository) GetForUpdate(ctx context.Context, id int64) (*domain.KnowledgeItem, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+knowledgeColumns+`
		 FROM ai_knowledge_base WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanKnowledgeRow(row)
}

func (r *KnowledgeRepository) UpdateFeedback(ctx context.Context, id int64, usageCount int64, effectiveness float64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE ai_knowledge_base
		 SET usage_count = $1, effectiveness_score = $2, updated_at = $3
		 WHERE id = $4`,
		usageCount, effectiveness, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func (r *KnowledgeRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM ai_knowledge_base WHERE is_active`,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanKnowledgeRow(row pgx.Row) (*domain.KnowledgeItem, error) {
	var k domain.KnowledgeItem
	var emotionTrigger, contextKeywords *string
	var actionsJSON []byte
	err := row.Scan(
		&k.ID, &k.ContentType, &k.ContentID, &emotionTrigger, &contextKeywords,
		&k.GuidanceText, &actionsJSON, &k.UsageCount, &k.EffectivenessScore, &k.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeNotFound
		}
		return nil, err
	}
	if emotionTrigger != nil {
		k.EmotionTrigger = *emotionTrigger
	}
	if contextKeywords != nil {
		k.ContextKeywords = *contextKeywords
	}
	k.SuggestedActions = decodeActions(actionsJSON)
	return &k, nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeItem, error) {
	var results []*domain.KnowledgeItem
	for rows.Next() {
		var k domain.KnowledgeItem
		var emotionTrigger, contextKeywords *string
		var actionsJSON []byte
		if err := rows.Scan(
			&k.ID, &k.ContentType, &k.ContentID, &emotionTrigger, &contextKeywords,
			&k.GuidanceText, &actionsJSON, &k.UsageCount, &k.EffectivenessScore, &k.IsActive,
		); err != nil {
			return nil, err
		}
		if emotionTrigger != nil {
			k.EmotionTrigger = *emotionTrigger
		}
		if contextKeywords != nil {
			k.ContextKeywords = *contextKeywords
		}
		k.SuggestedActions = decodeActions(actionsJSON)
		results = append(results, &k)
	}
	return results, rows.Err()
}

// decodeActions tolerates null and malformed payloads; bad rows degrade to
// no suggested actions rather than failing the whole list.
func decodeActions(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var actions []string
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil
	}
	return actions
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
