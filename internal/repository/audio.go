package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/pagination"
	"github.com/mtqmn/qalbu/internal/service"
)

type AudioRepository struct {
	pool *pgxpool.Pool
}

func NewAudioRepository(pool *pgxpool.Pool) *AudioRepository {
	return &AudioRepository{pool: pool}
}

const audioColumns = `id, category_id, title, description, storage_key, duration_sec,
	 play_count, rating, is_active, created_at, updated_at`

func (r *AudioRepository) ListActiveWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.AudioPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT `+audioColumns+`
			 FROM audio_relax
			 WHERE is_active AND (updated_at, id) < ($1, $2)
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT `+audioColumns+`
			 FROM audio_relax
			 WHERE is_active
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanAudioRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.UpdatedAt)
	}

	return &service.AudioPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *AudioRepository) ListPopular(ctx context.Context, limit int) ([]*domain.AudioTrack, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+audioColumns+`
		 FROM audio_relax
		 WHERE is_active
		 ORDER BY play_count DESC, id ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAudioRows(rows)
}

func (r *AudioRepository) GetByID(ctx context.Context, id string) (*domain.AudioTrack, error) {
	var t domain.AudioTrack
	var description, storageKey *string
	err := r.pool.QueryRow(ctx,
		`SELECT `+audioColumns+`
		 FROM audio_relax WHERE id = $1`,
		id,
	).Scan(
		&t.ID, &t.CategoryID, &t.Title, &description, &storageKey, &t.DurationSec,
		&t.PlayCount, &t.Rating, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAudioNotFound
		}
		return nil, err
	}
	if description != nil {
		t.Description = *description
	}
	if storageKey != nil {
		t.StorageKey = *storageKey
	}
	return &t, nil
}

func (r *AudioRepository) IncrementPlayCount(ctx context.Context, id string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE audio_relax SET play_count = play_count + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrAudioNotFound
	}
	return nil
}

func scanAudioRows(rows pgx.Rows) ([]*domain.AudioTrack, error) {
	var results []*domain.AudioTrack
	for rows.Next() {
		var t domain.AudioTrack
		var description, storageKey *string
		if err := rows.Scan(
			&t.ID, &t.CategoryID, &t.Title, &description, &storageKey, &t.DurationSec,
			&t.PlayCount, &t.Rating, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if description != nil {
			t.Description = *description
		}
		if storageKey != nil {
			t.StorageKey = *storageKey
		}
		results = append(results, &t)
	}
	return results, rows.Err()
}
