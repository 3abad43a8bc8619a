package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/config"
)

// respondError maps service errors onto HTTP statuses. Anything unmatched is
// a 500; its detail is only echoed outside production.
func respondError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, common.ErrDuplicateIdentity),
		errors.Is(err, common.ErrDuplicateISBN),
		errors.Is(err, common.ErrAlreadyOnShelf),
		errors.Is(err, common.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, common.ErrNotFoundOrForbidden):
		c.JSON(http.StatusNotFound, gin.H{"message": "Shelf not found"})
	case errors.Is(err, common.ErrMailDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"message": "Error sending email"})
	default:
		logrus.WithError(err).Error(fallbackMessage)
		body := gin.H{"message": fallbackMessage}
		if !config.IsProduction() {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// respondValidation rejects a request before it reaches service logic.
func respondValidation(c *gin.Context, errs []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "Validation failed",
		"errors":  errs,
	})
}

// requireUserID pulls the authenticated user out of the request context.
func requireUserID(c *gin.Context) (int, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return 0, false
	}
	userID, ok := userIDInterface.(int)
	if !ok || userID <= 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Invalid user ID"})
		return 0, false
	}
	return userID, true
}
