package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/catalog"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type FactorHandler struct {
	log     *logger.Logger
	factors services.FactorService
}

func NewFactorHandler(log *logger.Logger, factors services.FactorService) *FactorHandler {
	return &FactorHandler{
		log:     log.With("handler", "FactorHandler"),
		factors: factors,
	}
}

// Definitions serves the built-in factor catalog grouped by category.
func (fh *FactorHandler) Definitions(c *gin.Context) {
	response := gin.H{}
	for _, category := range catalog.Categories() {
		factors := make([]gin.H, 0, len(category.Factors))
		for _, f := range category.Factors {
			factors = append(factors, gin.H{
				"id":       f.ID,
				"name":     f.Name,
				"category": category.ID,
			})
		}
		response[category.ID] = gin.H{
			"name":    category.Name,
			"factors": factors,
		}
	}
	c.JSON(http.StatusOK, response)
}

func (fh *FactorHandler) Submit(c *gin.Context) {
	assessmentID := c.Param("assessmentID")

	var body struct {
		Factors []services.FactorInput `json:"factors"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Factors == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format. Expected 'factors' array"})
		return
	}

	result, err := fh.factors.SubmitRatings(c.Request.Context(), assessmentID, body.Factors)
	if err != nil {
		respondErrorNamed(c, fh.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (fh *FactorHandler) List(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := fh.factors.ListRatings(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, fh.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (fh *FactorHandler) Update(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	factorID := c.Param("factorID")

	var input services.FactorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	result, err := fh.factors.UpdateRating(c.Request.Context(), assessmentID, factorID, input)
	if err != nil {
		respondErrorNamed(c, fh.log, err, "Factor definition "+factorID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}
