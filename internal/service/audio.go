package service

import (
	"context"
	"log"

	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/pagination"
	"github.com/mtqmn/qalbu/internal/telemetry"
)

// AudioRepositoryInterface defines the repository interface for the audio
// relaxation catalog.
type AudioRepositoryInterface interface {
	ListActiveWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*AudioPageResult, error)
	ListPopular(ctx context.Context, limit int) ([]*domain.AudioTrack, error)
	GetByID(ctx context.Context, id string) (*domain.AudioTrack, error)
	IncrementPlayCount(ctx context.Context, id string) error
}

// AudioStorage generates presigned URLs for stored track files.
type AudioStorage interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

type AudioPageResult struct {
	Items      []*domain.AudioTrack
	NextCursor string
	HasMore    bool
}

type ListAudioInput struct {
	Cursor string
	Limit  int
}

type ListAudioOutput struct {
	Items   []*domain.AudioTrack
	Cursor  string
	HasMore bool
}

// AudioTrackDetail is one track plus a short-lived download URL when object
// storage is configured.
type AudioTrackDetail struct {
	Track       *domain.AudioTrack
	DownloadURL string
}

// AudioService handles the audio relaxation catalog. storage may be nil
// when no object storage is configured; track details then carry no
// download URL.
type AudioService struct {
	repo    AudioRepositoryInterface
	storage AudioStorage
}

// NewAudioService creates a new AudioService instance.
func NewAudioService(repo AudioRepositoryInterface, storage AudioStorage) *AudioService {
	return &AudioService{repo: repo, storage: storage}
}

// List returns a page of active tracks, newest first.
func (s *AudioService) List(ctx context.Context, input ListAudioInput) (*ListAudioOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "AudioService.List", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.repo.ListActiveWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListAudioOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}

// ListPopular returns the most played active tracks.
func (s *AudioService) ListPopular(ctx context.Context, limit int) ([]*domain.AudioTrack, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListPopular(ctx, limit)
}

// Get returns one track with a presigned download URL when storage is
// available. A presign failure degrades to a detail without a URL.
func (s *AudioService) Get(ctx context.Context, id string) (*AudioTrackDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "AudioService.Get", telemetry.SpanAttributes{
		Operation: "get",
	})
	defer span.End()

	track, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AudioTrackDetail{Track: track}
	if s.storage != nil && track.StorageKey != "" {
		url, err := s.storage.GenerateDownloadURL(ctx, track.StorageKey)
		if err != nil {
			log.Printf("audio: presign failed for %s: %v", id, err)
		} else {
			detail.DownloadURL = url
		}
	}
	return detail, nil
}

// RecordPlay bumps a track's play counter.
func (s *AudioService) RecordPlay(ctx context.Context, id string) error {
	return s.repo.IncrementPlayCount(ctx, id)
}
