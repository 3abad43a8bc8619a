package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/auth"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/mail"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

// Signup creates a new account with the default role and settings. The input
// is assumed to be validated and the email lowercase-normalized already.
func Signup(db *sql.DB, req models.SignupRequest) (*models.User, error) {
	// One query covers both identity fields; the unique indexes backstop the
	// race with a concurrent signup.
	var existingID int
	err := db.QueryRow(
		`SELECT id FROM users WHERE email = $1 OR username = $2 LIMIT 1`,
		req.Email, req.Username,
	).Scan(&existingID)
	if err == nil {
		return nil, common.ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profilePicture := strings.TrimSpace(req.ProfilePicture)
	if profilePicture == "" {
		profilePicture = database.DefaultProfilePicture
	}

	row := db.QueryRow(
		`INSERT INTO users (username, email, password, profile_picture)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		req.Username, req.Email, hashed, profilePicture,
	)
	user, err := scanUser(row)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password collapse into the same error value.
func Login(db *sql.DB, email, password string) (string, *models.User, error) {
	user, err := getUserByEmail(db, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPasswordHash(password, user.Password) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// RequestPasswordReset persists the hash of a fresh reset token on the user
// and mails the plaintext token as a reset link. A delivery failure leaves
// the token in place, so re-requesting is a safe retry.
func RequestPasswordReset(db *sql.DB, mailer mail.Mailer, baseURL, email string) error {
	var userID int
	var userEmail string
	err := db.QueryRow(`SELECT id, email FROM users WHERE email = $1`, email).Scan(&userID, &userEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return err
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(auth.ResetTokenTTL)
	_, err = db.Exec(
		`UPDATE users
		 SET reset_token_hash = $1, reset_token_expires = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		auth.HashResetToken(token), expires, userID,
	)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(baseURL, "/"), token)
	if err := mailer.Send(mail.ResetPasswordMessage(userEmail, resetURL)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMailDelivery, err)
	}

	return nil
}

// ResetPassword redeems a reset token. The match on hash + unexpired window,
// the password swap and the clearing of both token fields happen in one
// atomic statement, which also makes the token single-use.
func ResetPassword(db *sql.DB, token, newPassword string) error {
	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	var userID int
	err = db.QueryRow(
		`UPDATE users
		 SET password = $1, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE reset_token_hash = $2 AND reset_token_expires > CURRENT_TIMESTAMP
		 RETURNING id`,
		hashed, auth.HashResetToken(token),
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}
