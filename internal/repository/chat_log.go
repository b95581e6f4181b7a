package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtqmn/qalbu/internal/service"
)

// ChatLogRepository stores chat logs for evaluation/feedback loops.
type ChatLogRepository struct {
	pool *pgxpool.Pool
}

func NewChatLogRepository(pool *pgxpool.Pool) *ChatLogRepository {
	return &ChatLogRepository{pool: pool}
}

func (r *ChatLogRepository) CreateChatLog(ctx context.Context, entry service.ChatLogEntry) (string, error) {
	candidatesJSON, _ := json.Marshal(entry.Candidates)

	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_logs (conversation_id, query, user_emotion, response_type, reason,
		                        chosen_kb_id, top_score, candidates, candidate_count, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		nullableString(entry.ConversationID),
		entry.Query,
		nullableString(entry.UserEmotion),
		entry.ResponseType,
		nullableString(entry.Reason),
		entry.ChosenKBID,
		entry.TopScore,
		candidatesJSON,
		len(entry.Candidates),
		entry.DurationMs,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
