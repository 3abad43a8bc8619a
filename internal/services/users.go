package services

import (
	"database/sql"
	"errors"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/auth"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

// GetProfile loads a user by id.
func GetProfile(db *sql.DB, userID int) (*models.User, error) {
	user, err := getUserByID(db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update to username, email or profile
// picture. Nil fields keep their current value.
func UpdateProfile(db *sql.DB, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	row := db.QueryRow(
		`UPDATE users
		 SET username = COALESCE($1, username),
		     email = COALESCE($2, email),
		     profile_picture = COALESCE($3, profile_picture),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING `+userColumns,
		req.Username, req.Email, req.ProfilePicture, userID,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if isDuplicateKey(err) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before re-hashing and storing
// the new one.
func ChangePassword(db *sql.DB, userID int, currentPassword, newPassword string) error {
	user, err := getUserByID(db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return err
	}

	if !auth.CheckPasswordHash(currentPassword, user.Password) {
		return common.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		`UPDATE users SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		hashed, userID,
	)
	return err
}

// GetSettings returns the user's notification settings.
func GetSettings(db *sql.DB, userID int) (*models.Settings, error) {
	var settings models.Settings
	err := db.QueryRow(
		`SELECT notifications_enabled, email_preference FROM users WHERE id = $1`,
		userID,
	).Scan(&settings.NotificationsEnabled, &settings.EmailPreference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a partial settings update. Nil fields keep their
// current value.
func UpdateSettings(db *sql.DB, userID int, req models.UpdateSettingsRequest) (*models.Settings, error) {
	var settings models.Settings
	err := db.QueryRow(
		`UPDATE users
		 SET notifications_enabled = COALESCE($1, notifications_enabled),
		     email_preference = COALESCE($2, email_preference),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING notifications_enabled, email_preference`,
		req.NotificationsEnabled, req.EmailPreference, userID,
	).Scan(&settings.NotificationsEnabled, &settings.EmailPreference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// DeleteAccountSummary reports what an account deletion removed.
type DeleteAccountSummary struct {
	UserID         int   `json:"user_id"`
	DeletedShelves int64 `json:"deleted_shelves"`
	ClearedBooks   int64 `json:"cleared_books"`
	DeletedReviews int64 `json:"deleted_reviews"`
}

// DeleteAccount removes a user and everything hanging off the account. Books
// pointing at the user's shelves must have their shelf reference cleared
// before the shelves can cascade away, so the whole sequence runs in one
// transaction.
func DeleteAccount(db *sql.DB, userID int) (DeleteAccountSummary, error) {
	summary := DeleteAccountSummary{UserID: userID}

	tx, err := db.Begin()
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()

	var existingID int
	if err := tx.QueryRow(`SELECT id FROM users WHERE id = $1`, userID).Scan(&existingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return summary, common.ErrNotFound
		}
		return summary, err
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM shelves WHERE owner_id = $1`, userID).Scan(&summary.DeletedShelves); err != nil {
		return summary, err
	}
	if err := tx.QueryRow(`SELECT COUNT(*) FROM reviews WHERE reviewer_id = $1`, userID).Scan(&summary.DeletedReviews); err != nil {
		return summary, err
	}

	result, err := tx.Exec(
		`UPDATE books
		 SET shelf_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE shelf_id IN (SELECT id FROM shelves WHERE owner_id = $1)`,
		userID,
	)
	if err != nil {
		return summary, err
	}
	summary.ClearedBooks, _ = result.RowsAffected()

	if _, err := tx.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		return summary, err
	}

	if err := tx.Commit(); err != nil {
		return summary, err
	}

	return summary, nil
}
