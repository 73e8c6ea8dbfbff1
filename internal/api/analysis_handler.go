package api

import (
	"alcyxob/form-check/internal/domain"
	"alcyxob/form-check/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AnalysisHandler holds the analysis service dependency.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeForm godoc
// @Summary Analyze lifting form
// @Description Sends pre-computed biomechanics data to the language model and returns its assessment.
// @Tags form-analysis
// @Accept json
// @Produce json
// @Param request body domain.AnalysisRequest true "Biomechanics data"
// @Success 200 {object} domain.AnalysisResponse "Form analysis"
// @Failure 422 {object} gin.H "Validation error (field-level detail)"
// @Failure 500 {object} gin.H "Configuration or upstream model failure"
// @Router /api/analyze-form [post]
func (h *AnalysisHandler) AnalyzeForm(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, bindingErrors(err))
		return
	}

	var req domain.AnalysisRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, requestErrors(body, &req, err))
		return
	}
	req.Sanitize()

	resp, err := h.analysisService.AnalyzeForm(c.Request.Context(), &req)
	if err != nil {
		respondWithAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
