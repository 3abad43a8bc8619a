// Package services holds the business operations behind the HTTP handlers.
// Every function takes the connection pool explicitly and returns sentinel
// errors from internal/common for the handler layer to map onto statuses.
package services

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

const userColumns = `id, username, email, password, profile_picture, roles, notifications_enabled, email_preference, created_at, updated_at`

const bookColumns = `id, title, authors, genre, publication_date, isbn, tags, personal_notes, status, cover_image_url, shelf_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.ProfilePicture,
		pq.Array(&user.Roles),
		&user.Settings.NotificationsEnabled,
		&user.Settings.EmailPreference,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanBook(row rowScanner, withRating bool) (*models.Book, error) {
	var book models.Book
	dest := []any{
		&book.ID,
		&book.Title,
		pq.Array(&book.Authors),
		&book.Genre,
		&book.PublicationDate,
		&book.ISBN,
		pq.Array(&book.Tags),
		&book.PersonalNotes,
		&book.Status,
		&book.CoverImageURL,
		&book.ShelfID,
		&book.CreatedAt,
		&book.UpdatedAt,
	}
	if withRating {
		dest = append(dest, &book.AverageRating, &book.ReviewCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	book.AuthorList = models.JoinAuthors(book.Authors)
	if book.Tags == nil {
		book.Tags = []string{}
	}
	return &book, nil
}

func getUserByID(db *sql.DB, id int) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func getUserByEmail(db *sql.DB, email string) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// isDuplicateKey matches the unique-constraint violation the driver reports
// when a concurrent insert wins the race past our existence pre-check.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// queryBooks runs a book query that includes the aggregated rating columns
// and scans the full result set.
func queryBooks(db *sql.DB, query string, args ...any) ([]models.Book, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows, true)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}
