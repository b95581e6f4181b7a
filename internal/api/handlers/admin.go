package handlers

import (
	"context"
	"net/http"

	"github.com/mtqmn/qalbu/internal/api"
	"github.com/mtqmn/qalbu/internal/service"
)

type AdminServiceInterface interface {
	Health() service.HealthInfo
	Stats(ctx context.Context) service.StatsInfo
	Reload(ctx context.Context) (int, error)
}

type AdminHandler struct {
	svc AdminServiceInterface
}

func NewAdminHandler(svc AdminServiceInterface) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type HealthResponse struct {
	Status  string `json:"status"`
	KBItems int    `json:"kb_items"`
}

type StatsResponse struct {
	IndexItems    int    `json:"index_items"`
	ActiveKBCount int64  `json:"active_kb_count"`
	Database      string `json:"database"`
}

type ReloadResponse struct {
	Status  string `json:"status"`
	KBItems int    `json:"kb_items"`
}

// Health reports liveness without touching the store.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	info := h.svc.Health()
	api.JSON(w, http.StatusOK, &HealthResponse{
		Status:  info.Status,
		KBItems: info.KBItems,
	})
}

// Stats reports index and store state.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	info := h.svc.Stats(r.Context())
	api.Success(w, http.StatusOK, &StatsResponse{
		IndexItems:    info.IndexItems,
		ActiveKBCount: info.ActiveKBCount,
		Database:      info.Database,
	})
}

// Reload rebuilds the index snapshot synchronously.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Reload(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, &ReloadResponse{
		Status:  "reloaded",
		KBItems: count,
	})
}
