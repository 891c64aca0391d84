package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/services"
)

const matrixSnapshotKey = "opportunity-matrix"

type StrategyHandler struct {
	log         *logger.Logger
	strategySvc services.StrategyService
	matrixSvc   services.OpportunityService
	snapshots   *cache.SnapshotCache
}

func NewStrategyHandler(
	log *logger.Logger,
	strategySvc services.StrategyService,
	matrixSvc services.OpportunityService,
	snapshots *cache.SnapshotCache,
) *StrategyHandler {
	return &StrategyHandler{
		log:         log.With("handler", "StrategyHandler"),
		strategySvc: strategySvc,
		matrixSvc:   matrixSvc,
		snapshots:   snapshots,
	}
}

// GET /api/strategy/brief/:indication/:biomarker
// Cross-source strategy brief for a biomarker-indication pair.
func (h *StrategyHandler) GetBrief(c *gin.Context) {
	indication := c.Param("indication")
	biomarker := c.Param("biomarker")

	brief, err := h.strategySvc.Brief(c.Request.Context(), indication, biomarker)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "strategy_brief_failed", err)
		return
	}
	RespondOK(c, brief)
}

// GET /api/strategy/opportunity-matrix
// Biomarker x indication trial-activity matrix with emerging opportunities.
func (h *StrategyHandler) GetOpportunityMatrix(c *gin.Context) {
	ctx := c.Request.Context()

	var cached services.OpportunityMatrix
	if h.snapshots.Get(ctx, matrixSnapshotKey, &cached) {
		RespondOK(c, cached)
		return
	}

	matrix, err := h.matrixSvc.Matrix(ctx)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "opportunity_matrix_failed", err)
		return
	}
	h.snapshots.Set(ctx, matrixSnapshotKey, matrix)
	RespondOK(c, matrix)
}
