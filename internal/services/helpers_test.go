package services

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/mail"
)

const testJWTSecret = "shelflife_test_jwt_secret_key_1234567890"

func TestMain(m *testing.M) {
	_ = os.Setenv("JWT_SECRET", testJWTSecret)
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

var userTestColumns = []string{
	"id", "username", "email", "password", "profile_picture", "roles",
	"notifications_enabled", "email_preference", "created_at", "updated_at",
}

func userRow(id int, username, email, passwordHash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userTestColumns).
		AddRow(id, username, email, passwordHash, "https://www.gravatar.com/avatar/?d=mp", "{user}", true, "weekly", now, now)
}

var shelfTestColumns = []string{"id", "name", "owner_id", "created_at", "updated_at"}

func shelfRow(id int, name string, ownerID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(shelfTestColumns).AddRow(id, name, ownerID, now, now)
}

var bookTestColumns = []string{
	"id", "title", "authors", "genre", "publication_date", "isbn", "tags",
	"personal_notes", "status", "cover_image_url", "shelf_id", "created_at", "updated_at",
}

var bookWithRatingColumns = append(append([]string{}, bookTestColumns...), "average_rating", "review_count")

func bookRow(id int, title, authors string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookTestColumns).
		AddRow(id, title, authors, nil, nil, nil, "{}", nil, nil, "https://covers.openlibrary.org/b/id/0-M.jpg", nil, now, now)
}

func emptyShelfBooks() *sqlmock.Rows {
	return sqlmock.NewRows(bookWithRatingColumns)
}

// fakeMailer records outbound messages instead of dispatching them.
type fakeMailer struct {
	sent    []mail.Message
	failErr error
}

func (m *fakeMailer) Send(msg mail.Message) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, msg)
	return nil
}
