package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/services"
)

// GetProfile returns the authenticated user's profile.
func GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := services.GetProfile(database.DB, userID)
	if err != nil {
		respondError(c, err, "Error retrieving profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies a partial update to the authenticated user's profile.
func UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var errs []string
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
		if !isValidUsername(trimmed) {
			errs = append(errs, "username must be between 3 and 20 characters")
		}
	}
	if req.Email != nil {
		normalized := normalizeEmail(*req.Email)
		req.Email = &normalized
		if !isValidEmail(normalized) {
			errs = append(errs, "email must be a valid email address")
		}
	}
	if req.ProfilePicture != nil && !isValidURL(*req.ProfilePicture) {
		errs = append(errs, "profile_picture must be a valid URL")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	user, err := services.UpdateProfile(database.DB, userID, req)
	if err != nil {
		respondError(c, err, "Error updating profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePassword sets a new password after verifying the current one.
func ChangePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Current and new password are required"})
		return
	}

	if !isValidPassword(req.NewPassword) {
		respondValidation(c, []string{"new_password must be at least 6 characters"})
		return
	}

	if err := services.ChangePassword(database.DB, userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "Error changing password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetSettings returns the authenticated user's notification settings.
func GetSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	settings, err := services.GetSettings(database.DB, userID)
	if err != nil {
		respondError(c, err, "Error retrieving settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings applies a partial update to the notification settings.
func UpdateSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.EmailPreference != nil && !isValidEmailPreference(*req.EmailPreference) {
		respondValidation(c, []string{"email_preference must be one of daily, weekly, monthly"})
		return
	}

	settings, err := services.UpdateSettings(database.DB, userID, req)
	if err != nil {
		respondError(c, err, "Error updating settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// DeleteProfile removes the authenticated user's account and everything
// hanging off it.
func DeleteProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := services.DeleteAccount(database.DB, userID)
	if err != nil {
		respondError(c, err, "Error deleting profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile deleted successfully",
		"summary": summary,
	})
}
