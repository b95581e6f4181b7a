package service

import (
	"context"
	"log"

	"github.com/mtqmn/qalbu/internal/telemetry"
)

// Rebuilder owns the index snapshot lifecycle.
type Rebuilder interface {
	SnapshotProvider
	Rebuild(ctx context.Context) (int, error)
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthInfo is the liveness view.
type HealthInfo struct {
	Status  string
	KBItems int
}

// StatsInfo describes the current index and store state.
type StatsInfo struct {
	IndexItems    int
	ActiveKBCount int64
	Database      string
}

// AdminService serves health, stats and manual reloads.
type AdminService struct {
	index     Rebuilder
	knowledge KnowledgeRepositoryInterface
	pinger    Pinger
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(index Rebuilder, knowledge KnowledgeRepositoryInterface, pinger Pinger) *AdminService {
	return &AdminService{
		index:     index,
		knowledge: knowledge,
		pinger:    pinger,
	}
}

// Health reports liveness from in-memory state only; it never touches the
// store.
func (s *AdminService) Health() HealthInfo {
	return HealthInfo{
		Status:  "ok",
		KBItems: s.index.Current().Len(),
	}
}

// Stats reports index size plus store-side counts. Store failures degrade
// the report instead of failing it.
func (s *AdminService) Stats(ctx context.Context) StatsInfo {
	info := StatsInfo{
		IndexItems: s.index.Current().Len(),
		Database:   "ok",
	}

	if err := s.pinger.Ping(ctx); err != nil {
		log.Printf("admin: database ping failed: %v", err)
		info.Database = "unreachable"
		return info
	}

	count, err := s.knowledge.CountActive(ctx)
	if err != nil {
		log.Printf("admin: active count failed: %v", err)
		info.Database = "unreachable"
		return info
	}
	info.ActiveKBCount = count
	return info
}

// Reload rebuilds the index snapshot synchronously and returns the new item
// count.
func (s *AdminService) Reload(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "AdminService.Reload", telemetry.SpanAttributes{
		Operation: "reload",
	})
	defer span.End()

	count, err := s.index.Rebuild(ctx)
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	return count, nil
}
