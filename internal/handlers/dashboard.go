package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/services"
)

type DashboardHandler struct {
	log          *logger.Logger
	dashboardSvc services.DashboardService
	snapshots    *cache.SnapshotCache
}

func NewDashboardHandler(log *logger.Logger, dashboardSvc services.DashboardService, snapshots *cache.SnapshotCache) *DashboardHandler {
	return &DashboardHandler{
		log:          log.With("handler", "DashboardHandler"),
		dashboardSvc: dashboardSvc,
		snapshots:    snapshots,
	}
}

// GET /api/dashboard/stats/:indication
func (h *DashboardHandler) GetStats(c *gin.Context) {
	h.respondStats(c, c.Param("indication"))
}

// GET /api/dashboard/stats
func (h *DashboardHandler) GetGlobalStats(c *gin.Context) {
	h.respondStats(c, services.AllIndications)
}

func (h *DashboardHandler) respondStats(c *gin.Context, indication string) {
	ctx := c.Request.Context()
	key := "dashboard:" + indication

	var cached services.DashboardStats
	if h.snapshots.Get(ctx, key, &cached) {
		RespondOK(c, cached)
		return
	}

	stats, err := h.dashboardSvc.Stats(ctx, indication)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dashboard_stats_failed", err)
		return
	}
	h.snapshots.Set(ctx, key, stats)
	RespondOK(c, stats)
}
