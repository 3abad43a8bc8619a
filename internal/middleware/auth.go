package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/auth"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
)

const userIDContextKey = "user_id"

// UserIDFromContext returns the authenticated user's id, or 0 when the
// request did not pass the auth gate.
func UserIDFromContext(c *gin.Context) int {
	value, ok := c.Get(userIDContextKey)
	if !ok {
		return 0
	}
	userID, ok := value.(int)
	if !ok {
		return 0
	}
	return userID
}

// AuthMiddleware is the request authentication gate: it verifies the bearer
// token and resolves its subject to an existing user. Every failure mode maps
// to the same generic 401; the specific cause is only logged.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			unauthorized(c, "malformed authorization header")
			return
		}

		claims, err := auth.ValidateSessionToken(tokenParts[1])
		if err != nil {
			logrus.WithError(err).Debug("Rejected session token")
			unauthorized(c, "invalid session token")
			return
		}

		// A token can outlive its account; treat a vanished user exactly
		// like an invalid token.
		var existingID int
		err = database.DB.QueryRow(`SELECT id FROM users WHERE id = $1`, claims.UserID).Scan(&existingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				unauthorized(c, "token user no longer exists")
				return
			}
			logrus.WithError(err).Error("Error resolving token user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error authenticating request"})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, cause string) {
	logrus.WithField("cause", cause).Debug("Unauthorized request")
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	c.Abort()
}
