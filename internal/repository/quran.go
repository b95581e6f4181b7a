package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtqmn/qalbu/internal/domain"
)

// QuranRepository implements verse lookups for the fallback chain.
type QuranRepository struct {
	pool *pgxpool.Pool
}

func NewQuranRepository(pool *pgxpool.Pool) *QuranRepository {
	return &QuranRepository{pool: pool}
}

const verseColumns = `qa.id, qa.quran_surah_id, qa.number, qs.number, qs.name_indonesian,
	 qa.text_indonesian, qa.text_arabic`

// SearchVerses finds verses matching the query text, full-text first and a
// substring scan when full-text yields nothing.
func (r *QuranRepository) SearchVerses(ctx context.Context, query string, limit int) ([]*domain.QuranVerse, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+verseColumns+`
		 FROM quran_ayahs qa
		 JOIN quran_surahs qs ON qs.id = qa.quran_surah_id
		 WHERE to_tsvector('simple', coalesce(qa.text_indonesian, '') || ' ' || coalesce(qa.tafsir_indonesian, ''))
		       @@ websearch_to_tsquery('simple', $1)
		 ORDER BY qa.id ASC
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, err
	}
	verses, err := scanVerseRows(rows)
	if err != nil {
		return nil, err
	}
	if len(verses) > 0 {
		return verses, nil
	}

	rows, err = r.pool.Query(ctx,
		`SELECT `+verseColumns+`
		 FROM quran_ayahs qa
		 JOIN quran_surahs qs ON qs.id = qa.quran_surah_id
		 WHERE qa.text_indonesian ILIKE $1 OR qa.tafsir_indonesian ILIKE $1
		 ORDER BY qa.id ASC
		 LIMIT $2`,
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, err
	}
	return scanVerseRows(rows)
}

func scanVerseRows(rows pgx.Rows) ([]*domain.QuranVerse, error) {
	defer rows.Close()

	var verses []*domain.QuranVerse
	for rows.Next() {
		var v domain.QuranVerse
		var textArabic *string
		if err := rows.Scan(
			&v.AyahID, &v.SurahID, &v.AyahNumber, &v.SurahNumber, &v.SurahName,
			&v.TextIndonesian, &textArabic,
		); err != nil {
			return nil, err
		}
		if textArabic != nil {
			v.TextArabic = *textArabic
		}
		verses = append(verses, &v)
	}
	return verses, rows.Err()
}
