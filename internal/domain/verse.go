package domain

// QuranVerse is one ayah joined with its surah metadata, as returned by the
// fallback corpus search.
type QuranVerse struct {
	AyahID         int64
	SurahID        int64
	AyahNumber     int
	SurahNumber    int
	SurahName      string
	TextIndonesian string
	TextArabic     string
}
