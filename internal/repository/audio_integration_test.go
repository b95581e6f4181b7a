//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/pagination"
)

func seedAudio(t *testing.T, pool *pgxpool.Pool, n int) []string {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, n)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		err := pool.QueryRow(ctx, `
			INSERT INTO audio_relax (category_id, title, storage_key, duration_sec, play_count, is_active, updated_at)
			VALUES ('relax', $1, $2, 600, $3, TRUE, $4)
			RETURNING id
		`, fmt.Sprintf("Track %02d", i), fmt.Sprintf("audio/track-%02d.mp3", i), i*10, base.Add(time.Duration(i)*time.Minute)).Scan(&ids[i])
		require.NoError(t, err)
	}
	return ids
}

func TestAudioRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAudioRepository(pool)

	ids := seedAudio(t, pool, 5)

	t.Run("ListActiveWithCursor pages newest first", func(t *testing.T) {
		page1, err := repo.ListActiveWithCursor(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, page1.Items, 2)
		assert.True(t, page1.HasMore)
		assert.NotEmpty(t, page1.NextCursor)
		assert.Equal(t, "Track 04", page1.Items[0].Title)
		assert.Equal(t, "Track 03", page1.Items[1].Title)

		cursor, err := pagination.DecodeCursor(page1.NextCursor)
		require.NoError(t, err)

		page2, err := repo.ListActiveWithCursor(ctx, cursor, 2)
		require.NoError(t, err)
		require.Len(t, page2.Items, 2)
		assert.Equal(t, "Track 02", page2.Items[0].Title)
		assert.Equal(t, "Track 01", page2.Items[1].Title)

		cursor2, err := pagination.DecodeCursor(page2.NextCursor)
		require.NoError(t, err)

		page3, err := repo.ListActiveWithCursor(ctx, cursor2, 2)
		require.NoError(t, err)
		require.Len(t, page3.Items, 1)
		assert.False(t, page3.HasMore)
		assert.Empty(t, page3.NextCursor)
	})

	t.Run("ListPopular orders by play count", func(t *testing.T) {
		tracks, err := repo.ListPopular(ctx, 3)
		require.NoError(t, err)
		require.Len(t, tracks, 3)
		assert.Equal(t, "Track 04", tracks[0].Title)
		assert.GreaterOrEqual(t, tracks[0].PlayCount, tracks[1].PlayCount)
		assert.GreaterOrEqual(t, tracks[1].PlayCount, tracks[2].PlayCount)
	})

	t.Run("GetByID", func(t *testing.T) {
		track, err := repo.GetByID(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "Track 00", track.Title)
		assert.Equal(t, "audio/track-00.mp3", track.StorageKey)
	})

	t.Run("GetByID unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrAudioNotFound)
	})

	t.Run("IncrementPlayCount", func(t *testing.T) {
		before, err := repo.GetByID(ctx, ids[1])
		require.NoError(t, err)

		require.NoError(t, repo.IncrementPlayCount(ctx, ids[1]))

		after, err := repo.GetByID(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, before.PlayCount+1, after.PlayCount)
	})

	t.Run("IncrementPlayCount unknown id", func(t *testing.T) {
		err := repo.IncrementPlayCount(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrAudioNotFound)
	})
}
