// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	dashboardCacheTTL = 5 * time.Minute
	dashboardTopN     = 5
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	responder
	repo              ports.DashboardRepository
	cache             ports.CacheRepository
	lowStockThreshold int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(repo ports.DashboardRepository, cache ports.CacheRepository, lowStockThreshold int, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		responder:         responder{logger: logger.With(slog.String("handler", "dashboard"))},
		repo:              repo,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Try cache first
	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "sales")
	var dashboard domain.DashboardSummary

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.repo.Summary(ctx, h.lowStockThreshold, dashboardTopN)
	}, dashboardCacheTTL)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}
