package domain

import "time"

// AudioTrack is one audio relaxation entry. Track files live in object
// storage; the catalog row carries the storage key.
type AudioTrack struct {
	ID          string
	CategoryID  string
	Title       string
	Description string
	StorageKey  string
	DurationSec int
	PlayCount   int64
	Rating      float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
