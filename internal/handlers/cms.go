package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type CMSHandler struct {
	log *logger.Logger
	cms services.CMSService
}

func NewCMSHandler(log *logger.Logger, cms services.CMSService) *CMSHandler {
	return &CMSHandler{
		log: log.With("handler", "CMSHandler"),
		cms: cms,
	}
}

func (ch *CMSHandler) Link(c *gin.Context) {
	assessmentID := c.Param("assessmentID")

	var input services.CMSLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	result, err := ch.cms.Link(c.Request.Context(), assessmentID, input)
	if err != nil {
		respondErrorNamed(c, ch.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ch *CMSHandler) ListLinks(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := ch.cms.ListLinks(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, ch.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ch *CMSHandler) DeleteLink(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	cmsType := c.Param("cmsType")

	result, err := ch.cms.DeleteLink(c.Request.Context(), assessmentID, cmsType)
	if err != nil {
		respondErrorNamed(c, ch.log, err, "No link found for CMS type "+cmsType)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ch *CMSHandler) Sync(c *gin.Context) {
	assessmentID := c.Param("assessmentID")
	result, err := ch.cms.Sync(c.Request.Context(), assessmentID)
	if err != nil {
		respondErrorNamed(c, ch.log, err, "Assessment "+assessmentID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ch *CMSHandler) Systems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cms_systems": ch.cms.ListSystems()})
}
