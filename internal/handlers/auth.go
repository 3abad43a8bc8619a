package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/auth"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/config"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/mail"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/services"
)

// Signup handles user registration.
func Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	var errs []string
	if !isValidUsername(req.Username) {
		errs = append(errs, "username must be between 3 and 20 characters")
	}
	if !isValidEmail(req.Email) {
		errs = append(errs, "email must be a valid email address")
	}
	if !isValidPassword(req.Password) {
		errs = append(errs, "password must be at least 6 characters")
	}
	if req.ProfilePicture != "" && !isValidURL(req.ProfilePicture) {
		errs = append(errs, "profile_picture must be a valid URL")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	user, err := services.Signup(database.DB, req)
	if err != nil {
		respondError(c, err, "Error creating user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles user login and issues a session token.
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	token, user, err := services.Login(database.DB, normalizeEmail(req.Email), req.Password)
	if err != nil {
		respondError(c, err, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_in": int(auth.SessionTokenTTL.Seconds()),
		"user":       user,
	})
}

// ForgotPassword starts the password-reset flow: it stores a reset-token hash
// on the user and emails the plaintext token as a link.
func ForgotPassword(mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
			return
		}

		baseURL := config.GetEnvOrDefault("APP_BASE_URL", "http://localhost:3000")
		err := services.RequestPasswordReset(database.DB, mailer, baseURL, normalizeEmail(req.Email))
		if err != nil {
			respondError(c, err, "Error requesting password reset")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
	}
}

// ResetPassword redeems a reset token and sets the new password.
func ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token and new password are required"})
		return
	}

	if !isValidPassword(req.NewPassword) {
		respondValidation(c, []string{"new_password must be at least 6 characters"})
		return
	}

	if err := services.ResetPassword(database.DB, req.Token, req.NewPassword); err != nil {
		respondError(c, err, "Error resetting password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
