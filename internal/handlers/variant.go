package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/services"
)

type VariantHandler struct {
	log        *logger.Logger
	variantSvc services.VariantService
	funnelSvc  services.FunnelService
}

func NewVariantHandler(log *logger.Logger, variantSvc services.VariantService, funnelSvc services.FunnelService) *VariantHandler {
	return &VariantHandler{
		log:        log.With("handler", "VariantHandler"),
		variantSvc: variantSvc,
		funnelSvc:  funnelSvc,
	}
}

// GET /api/variants/:gene/:variant/card
// Unified variant intelligence card across all sources.
func (h *VariantHandler) GetCard(c *gin.Context) {
	gene := c.Param("gene")
	variant := c.Param("variant")

	card, err := h.variantSvc.Card(c.Request.Context(), gene, variant)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "variant_card_failed", err)
		return
	}
	RespondOK(c, card)
}

// GET /api/variants/:gene/:variant/funnel?indication=NSCLC
// Patient funnel estimate for the variant in one indication.
func (h *VariantHandler) GetFunnel(c *gin.Context) {
	gene := c.Param("gene")
	variant := c.Param("variant")
	indication := c.Query("indication")
	if indication == "" {
		RespondError(c, http.StatusBadRequest, "missing_indication",
			errors.New("indication query parameter is required"))
		return
	}

	funnel, err := h.funnelSvc.Estimate(c.Request.Context(), gene, variant, indication)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "variant_funnel_failed", err)
		return
	}
	RespondOK(c, funnel)
}

// GET /api/variants/:gene/landscape
// Variant x indication prevalence and actionability heatmap for a gene.
func (h *VariantHandler) GetLandscape(c *gin.Context) {
	gene := c.Param("gene")

	landscape, err := h.variantSvc.Landscape(c.Request.Context(), gene)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "variant_landscape_failed", err)
		return
	}
	RespondOK(c, landscape)
}
