//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVerses(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	var surahID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO quran_surahs (number, name_indonesian, name_arabic, total_ayahs)
		VALUES (94, 'Asy-Syarh', 'الشرح', 8)
		RETURNING id
	`).Scan(&surahID)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO quran_ayahs (quran_surah_id, number, text_indonesian, tafsir_indonesian)
		VALUES
			($1, 5, 'Maka sesungguhnya bersama kesulitan ada kemudahan', 'Janji Allah bagi yang bersabar'),
			($1, 6, 'Sesungguhnya bersama kesulitan ada kemudahan', NULL),
			($1, 7, 'Maka apabila engkau telah selesai, tetaplah bekerja keras', NULL)
	`, surahID)
	require.NoError(t, err)
}

func TestQuranRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewQuranRepository(pool)

	seedVerses(t, pool)

	t.Run("full-text match", func(t *testing.T) {
		verses, err := repo.SearchVerses(ctx, "kesulitan kemudahan", 2)
		require.NoError(t, err)
		require.Len(t, verses, 2)

		assert.Equal(t, "Asy-Syarh", verses[0].SurahName)
		assert.Equal(t, 94, verses[0].SurahNumber)
		assert.Equal(t, 5, verses[0].AyahNumber)
		assert.Contains(t, verses[0].TextIndonesian, "kesulitan")
	})

	t.Run("matches tafsir text", func(t *testing.T) {
		verses, err := repo.SearchVerses(ctx, "janji", 1)
		require.NoError(t, err)
		require.Len(t, verses, 1)
		assert.Equal(t, 5, verses[0].AyahNumber)
	})

	t.Run("substring fallback when full-text misses", func(t *testing.T) {
		// A mid-word fragment defeats the tsvector tokenizer; the ILIKE pass
		// still finds it.
		verses, err := repo.SearchVerses(ctx, "kerja kera", 1)
		require.NoError(t, err)
		require.Len(t, verses, 1)
		assert.Equal(t, 7, verses[0].AyahNumber)
	})

	t.Run("no match", func(t *testing.T) {
		verses, err := repo.SearchVerses(ctx, "zzzz tidak ada", 1)
		require.NoError(t, err)
		assert.Empty(t, verses)
	})

	t.Run("limit defaults to one", func(t *testing.T) {
		verses, err := repo.SearchVerses(ctx, "kesulitan", 0)
		require.NoError(t, err)
		assert.Len(t, verses, 1)
	})
}
