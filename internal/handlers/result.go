package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type ResultHandler struct {
	log     *logger.Logger
	results services.ResultService
}

func NewResultHandler(log *logger.Logger, results services.ResultService) *ResultHandler {
	return &ResultHandler{
		log:     log.With("handler", "ResultHandler"),
		results: results,
	}
}

func (rh *ResultHandler) Calculate(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := rh.results.Calculate(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, rh.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rh *ResultHandler) List(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := rh.results.ListResults(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, rh.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rh *ResultHandler) Latest(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := rh.results.LatestResult(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, rh.log, err, "No calculation results found for this assessment")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rh *ResultHandler) Export(c *gin.Context) {
	assessmentID := c.Param("assessmentID")

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	switch format {
	case "json":
	case "pdf":
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "PDF export not implemented in this version",
			"message": "Please use JSON format for now",
		})
		return
	case "csv":
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "CSV export not implemented in this version",
			"message": "Please use JSON format for now",
		})
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unsupported export format",
			"message": "Supported formats: json, pdf, csv",
		})
		return
	}

	export, err := rh.results.ExportLatest(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, rh.log, err, "No calculation results found for this assessment")
		return
	}
	c.JSON(http.StatusOK, export)
}
