package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prejudice-risk-backend/internal/apperr"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
)

// respondError maps service errors to the HTTP error taxonomy: field maps and
// invalid input to 400, auth failures to 401, missing resources to 404 and
// everything else to a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var fieldErrs apperr.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	switch {
	case errors.Is(err, apperr.ErrNoRatings):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondErrorNamed is respondError with a resource-specific 404 message.
func respondErrorNamed(c *gin.Context, log *logger.Logger, err error, notFoundMsg string) {
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	respondError(c, log, err)
}
