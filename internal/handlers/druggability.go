package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/services"
)

type DruggabilityHandler struct {
	log     *logger.Logger
	drugSvc services.DruggabilityService
}

func NewDruggabilityHandler(log *logger.Logger, drugSvc services.DruggabilityService) *DruggabilityHandler {
	return &DruggabilityHandler{
		log:     log.With("handler", "DruggabilityHandler"),
		drugSvc: drugSvc,
	}
}

// GET /api/druggability/:indication
// Combined association record per biomarker, strongest first.
func (h *DruggabilityHandler) GetMatrix(c *gin.Context) {
	indication := c.Param("indication")

	rows, err := h.drugSvc.Matrix(c.Request.Context(), indication)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "druggability_matrix_failed", err)
		return
	}
	RespondOK(c, gin.H{"indication": indication, "associations": rows})
}

// GET /api/druggability/:indication/:biomarker/drugs
// Deduplicated drug list for a biomarker-indication pair.
func (h *DruggabilityHandler) GetDrugs(c *gin.Context) {
	indication := c.Param("indication")
	biomarker := c.Param("biomarker")

	drugs, err := h.drugSvc.Drugs(c.Request.Context(), indication, biomarker)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "druggability_drugs_failed", err)
		return
	}
	RespondOK(c, gin.H{"indication": indication, "biomarker": biomarker, "drugs": drugs})
}

// GET /api/druggability/:indication/evidence
// All evidence rows for an indication in fixed confidence order.
func (h *DruggabilityHandler) GetEvidence(c *gin.Context) {
	indication := c.Param("indication")

	rows, err := h.drugSvc.RankedEvidence(c.Request.Context(), indication)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "druggability_evidence_failed", err)
		return
	}
	RespondOK(c, gin.H{"indication": indication, "evidence": rows})
}
