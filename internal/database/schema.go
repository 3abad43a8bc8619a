package database

import (
	"github.com/sirupsen/logrus"
)

// DefaultProfilePicture is applied when a user signs up without one.
const DefaultProfilePicture = "https://www.gravatar.com/avatar/?d=mp"

// DefaultCoverImage is applied when a book has no cover URL.
const DefaultCoverImage = "https://covers.openlibrary.org/b/id/0-M.jpg"

// CreateTables creates all required tables in the database.
func CreateTables() {
	createUsersTable()
	createShelvesTable()
	createBooksTable()
	createReviewsTable()
}

func createUsersTable() {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(20) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		profile_picture VARCHAR(500) NOT NULL DEFAULT '` + DefaultProfilePicture + `',
		roles TEXT[] NOT NULL DEFAULT ARRAY['user'],
		notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		email_preference VARCHAR(10) NOT NULL DEFAULT 'weekly',
		reset_token_hash VARCHAR(64),
		reset_token_expires TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		logrus.Fatal("Failed to create users table: ", err)
	}

	ensureUsersSchema()
	logrus.Info("Users table created successfully")
}

func createShelvesTable() {
	query := `
	CREATE TABLE IF NOT EXISTS shelves (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL DEFAULT 'New Shelf',
		owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		logrus.Fatal("Failed to create shelves table: ", err)
	}

	ensureShelvesSchema()
	logrus.Info("Shelves table created successfully")
}

func createBooksTable() {
	// No ON DELETE action for shelf_id: clearing the reference when a shelf
	// goes away is the service's job, inside the same transaction.
	query := `
	CREATE TABLE IF NOT EXISTS books (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		authors TEXT[] NOT NULL,
		genre VARCHAR(100),
		publication_date DATE,
		isbn VARCHAR(17) UNIQUE,
		tags TEXT[] NOT NULL DEFAULT '{}',
		personal_notes TEXT,
		status VARCHAR(20),
		cover_image_url VARCHAR(500) NOT NULL DEFAULT '` + DefaultCoverImage + `',
		shelf_id INTEGER REFERENCES shelves(id),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		logrus.Fatal("Failed to create books table: ", err)
	}

	ensureBooksSchema()
	logrus.Info("Books table created successfully")
}

func createReviewsTable() {
	query := `
	CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		reviewer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment VARCHAR(1000),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := DB.Exec(query); err != nil {
		logrus.Fatal("Failed to create reviews table: ", err)
	}

	ensureReviewsSchema()
	logrus.Info("Reviews table created successfully")
}

func ensureUsersSchema() {
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS users_reset_token_hash_idx ON users(reset_token_hash) WHERE reset_token_hash IS NOT NULL`); err != nil {
		logrus.Fatal("Failed to ensure users reset-token index: ", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS users_lower_email_idx ON users(lower(email))`); err != nil {
		logrus.Fatal("Failed to ensure users email index: ", err)
	}
}

func ensureShelvesSchema() {
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS shelves_owner_created_idx ON shelves(owner_id, created_at DESC, id DESC)`); err != nil {
		logrus.Fatal("Failed to ensure shelves owner/sort index: ", err)
	}
}

func ensureBooksSchema() {
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS books_shelf_idx ON books(shelf_id) WHERE shelf_id IS NOT NULL`); err != nil {
		logrus.Fatal("Failed to ensure books shelf index: ", err)
	}

	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS books_lower_title_idx ON books(lower(title))`); err != nil {
		logrus.Fatal("Failed to ensure books title index: ", err)
	}
}

func ensureReviewsSchema() {
	if _, err := DB.Exec(`CREATE INDEX IF NOT EXISTS reviews_book_created_idx ON reviews(book_id, created_at DESC, id DESC)`); err != nil {
		logrus.Fatal("Failed to ensure reviews book/sort index: ", err)
	}
}
