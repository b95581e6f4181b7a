package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mtqmn/qalbu/internal/api"
	"github.com/mtqmn/qalbu/internal/domain"
	"github.com/mtqmn/qalbu/internal/service"
)

type AudioServiceInterface interface {
	List(ctx context.Context, input service.ListAudioInput) (*service.ListAudioOutput, error)
	ListPopular(ctx context.Context, limit int) ([]*domain.AudioTrack, error)
	Get(ctx context.Context, id string) (*service.AudioTrackDetail, error)
	RecordPlay(ctx context.Context, id string) error
}

type AudioHandler struct {
	svc AudioServiceInterface
}

func NewAudioHandler(svc AudioServiceInterface) *AudioHandler {
	return &AudioHandler{svc: svc}
}

type AudioTrackResponse struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DurationSec int     `json:"duration_sec"`
	PlayCount   int64   `json:"play_count"`
	Rating      float64 `json:"rating"`
	DownloadURL string  `json:"download_url,omitempty"`
}

type ListAudioResponse struct {
	Items   []*AudioTrackResponse `json:"items"`
	Cursor  string                `json:"cursor,omitempty"`
	HasMore bool                  `json:"has_more"`
}

func audioToResponse(t *domain.AudioTrack) *AudioTrackResponse {
	return &AudioTrackResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		Title:       t.Title,
		Description: t.Description,
		DurationSec: t.DurationSec,
		PlayCount:   t.PlayCount,
		Rating:      t.Rating,
	}
}

// List returns a page of active tracks.
func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.svc.List(r.Context(), service.ListAudioInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*AudioTrackResponse, len(out.Items))
	for i, t := range out.Items {
		items[i] = audioToResponse(t)
	}

	api.Success(w, http.StatusOK, &ListAudioResponse{
		Items:   items,
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	})
}

// Popular returns the most played tracks.
func (h *AudioHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	tracks, err := h.svc.ListPopular(r.Context(), limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*AudioTrackResponse, len(tracks))
	for i, t := range tracks {
		items[i] = audioToResponse(t)
	}
	api.Success(w, http.StatusOK, items)
}

// Get returns one track with a download URL when storage is configured.
func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := audioToResponse(detail.Track)
	resp.DownloadURL = detail.DownloadURL
	api.Success(w, http.StatusOK, resp)
}

// Play records one playback of a track.
func (h *AudioHandler) Play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.RecordPlay(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
}
