package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type AssessmentHandler struct {
	log         *logger.Logger
	assessments services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessments services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:         log.With("handler", "AssessmentHandler"),
		assessments: assessments,
	}
}

func (ah *AssessmentHandler) Create(c *gin.Context) {
	var input services.AssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	created, err := ah.assessments.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ah *AssessmentHandler) Get(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	view, err := ah.assessments.Get(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ah *AssessmentHandler) Update(c *gin.Context) {
	assessmentID := c.Param("assessmentID")

	var input services.AssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	updated, err := ah.assessments.Update(c.Request.Context(), assessmentID, input)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (ah *AssessmentHandler) Delete(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	deleted, err := ah.assessments.Delete(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, ah.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (ah *AssessmentHandler) List(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}
	perPage, err := intQuery(c, "per_page", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	result, err := ah.assessments.List(c.Request.Context(), repos.AssessmentFilter{
		CaseName:  c.Query("case_name"),
		JudgeName: c.Query("judge_name"),
		Status:    c.Query("status"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		respondError(c, ah.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func intQuery(c *gin.Context, name string, defaultVal int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(raw)
}
