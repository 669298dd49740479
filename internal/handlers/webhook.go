package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/repos"
	"github.com/yungbote/prejudice-risk-backend/internal/services"
)

type WebhookHandler struct {
	log      *logger.Logger
	webhooks services.WebhookService
	events   services.EventService
}

func NewWebhookHandler(log *logger.Logger, webhooks services.WebhookService, events services.EventService) *WebhookHandler {
	return &WebhookHandler{
		log:      log.With("handler", "WebhookHandler"),
		webhooks: webhooks,
		events:   events,
	}
}

func (wh *WebhookHandler) Register(c *gin.Context) {
	var input services.WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	view, err := wh.webhooks.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, wh.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (wh *WebhookHandler) List(c *gin.Context) {
	views, err := wh.webhooks.List(c.Request.Context())
	if err != nil {
		respondError(c, wh.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": views})
}

func (wh *WebhookHandler) Get(c *gin.Context) {
	webhookID := c.Param("webhookID")
	detail, err := wh.webhooks.Get(c.Request.Context(), webhookID)
	if err != nil {
		respondErrorNamed(c, wh.log, err, "Webhook "+webhookID+" not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (wh *WebhookHandler) Update(c *gin.Context) {
	webhookID := c.Param("webhookID")

	var input services.WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	view, err := wh.webhooks.Update(c.Request.Context(), webhookID, input)
	if err != nil {
		respondErrorNamed(c, wh.log, err, "Webhook "+webhookID+" not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (wh *WebhookHandler) Delete(c *gin.Context) {
	webhookID := c.Param("webhookID")
	result, err := wh.webhooks.Delete(c.Request.Context(), webhookID)
	if err != nil {
		respondErrorNamed(c, wh.log, err, "Webhook "+webhookID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (wh *WebhookHandler) Deliveries(c *gin.Context) {
	webhookID := c.Param("webhookID")

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

	result, err := wh.webhooks.ListDeliveries(c.Request.Context(), webhookID, repos.DeliveryFilter{
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondErrorNamed(c, wh.log, err, "Webhook "+webhookID+" not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (wh *WebhookHandler) Test(c *gin.Context) {
	var input services.TestWebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	if input.TargetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: target_url"})
		return
	}
	if input.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: event"})
		return
	}

	result, err := wh.events.SendTest(c.Request.Context(), input)
	if err != nil {
		respondError(c, wh.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
