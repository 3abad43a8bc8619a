package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

const shelfColumns = `id, name, owner_id, created_at, updated_at`

const shelfBooksQuery = `
	SELECT b.id, b.title, b.authors, b.genre, b.publication_date, b.isbn, b.tags,
	       b.personal_notes, b.status, b.cover_image_url, b.shelf_id, b.created_at, b.updated_at,
	       COALESCE(AVG(r.rating), 0)::float AS average_rating,
	       COUNT(r.id)::int AS review_count
	FROM books b
	LEFT JOIN reviews r ON r.book_id = b.id
	WHERE b.shelf_id = $1
	GROUP BY b.id
	ORDER BY b.created_at DESC, b.id DESC
`

func scanShelf(row rowScanner) (*models.Shelf, error) {
	var shelf models.Shelf
	err := row.Scan(&shelf.ID, &shelf.Name, &shelf.OwnerID, &shelf.CreatedAt, &shelf.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// requireShelfOwner is the ownership gate: a missing shelf and a shelf owned
// by someone else are indistinguishable to the caller.
func requireShelfOwner(q querier, shelfID, requesterID int) (*models.Shelf, error) {
	row := q.QueryRow(
		`SELECT `+shelfColumns+` FROM shelves WHERE id = $1 AND owner_id = $2`,
		shelfID, requesterID,
	)
	shelf, err := scanShelf(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFoundOrForbidden
		}
		return nil, err
	}
	return shelf, nil
}

func attachShelfBooks(db *sql.DB, shelf *models.Shelf) error {
	books, err := queryBooks(db, shelfBooksQuery, shelf.ID)
	if err != nil {
		return err
	}
	shelf.Books = books
	shelf.BookCount = len(books)
	return nil
}

// assignBooksToShelf points every listed book at the shelf and fails with
// ErrNotFound when any id does not exist.
func assignBooksToShelf(tx *sql.Tx, shelfID int, bookIDs []int) error {
	if len(bookIDs) == 0 {
		return nil
	}

	result, err := tx.Exec(
		`UPDATE books SET shelf_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = ANY($2)`,
		shelfID, pq.Array(bookIDs),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected != int64(len(bookIDs)) {
		return common.ErrNotFound
	}
	return nil
}

// CreateShelf creates a shelf for the owner, optionally pre-populating it
// with books. The owner is bound here and never changes afterwards.
func CreateShelf(db *sql.DB, ownerID int, req models.CreateShelfRequest) (*models.Shelf, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = models.DefaultShelfName
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`INSERT INTO shelves (name, owner_id) VALUES ($1, $2) RETURNING `+shelfColumns,
		name, ownerID,
	)
	shelf, err := scanShelf(row)
	if err != nil {
		return nil, err
	}

	if err := assignBooksToShelf(tx, shelf.ID, req.BookIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := attachShelfBooks(db, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// ListShelves returns the requester's shelves with book counts.
func ListShelves(db *sql.DB, ownerID int, limit, offset int) ([]models.Shelf, int, error) {
	var totalCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM shelves WHERE owner_id = $1`, ownerID).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(
		`SELECT s.id, s.name, s.owner_id, s.created_at, s.updated_at,
		        COUNT(b.id)::int AS book_count
		 FROM shelves s
		 LEFT JOIN books b ON b.shelf_id = s.id
		 WHERE s.owner_id = $1
		 GROUP BY s.id
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	shelves := make([]models.Shelf, 0)
	for rows.Next() {
		var shelf models.Shelf
		if err := rows.Scan(&shelf.ID, &shelf.Name, &shelf.OwnerID, &shelf.CreatedAt, &shelf.UpdatedAt, &shelf.BookCount); err != nil {
			return nil, 0, err
		}
		shelves = append(shelves, shelf)
	}
	return shelves, totalCount, rows.Err()
}

// GetShelf returns a shelf with its books, gated by ownership.
func GetShelf(db *sql.DB, shelfID, requesterID int) (*models.Shelf, error) {
	shelf, err := requireShelfOwner(db, shelfID, requesterID)
	if err != nil {
		return nil, err
	}
	if err := attachShelfBooks(db, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// UpdateShelf applies a partial update. A book-id list, when present,
// replaces the shelf's whole book set.
func UpdateShelf(db *sql.DB, shelfID, requesterID int, req models.UpdateShelfRequest) (*models.Shelf, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	shelf, err := requireShelfOwner(tx, shelfID, requesterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		row := tx.QueryRow(
			`UPDATE shelves SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING `+shelfColumns,
			strings.TrimSpace(*req.Name), shelfID,
		)
		if shelf, err = scanShelf(row); err != nil {
			return nil, err
		}
	}

	if req.BookIDs != nil {
		if _, err := tx.Exec(
			`UPDATE books SET shelf_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE shelf_id = $1`,
			shelfID,
		); err != nil {
			return nil, err
		}
		if err := assignBooksToShelf(tx, shelfID, *req.BookIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := attachShelfBooks(db, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// DeleteShelf clears the shelf reference on every book pointing at the shelf
// and then removes the shelf, in one transaction.
func DeleteShelf(db *sql.DB, shelfID, requesterID int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := requireShelfOwner(tx, shelfID, requesterID); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE books SET shelf_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE shelf_id = $1`,
		shelfID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM shelves WHERE id = $1`, shelfID); err != nil {
		return err
	}

	return tx.Commit()
}

// AddBookToShelf points a book at the shelf. A book already on the target
// shelf is rejected; a book on a different shelf is moved, since the book
// holds the only pointer.
func AddBookToShelf(db *sql.DB, shelfID, bookID, requesterID int) (*models.Shelf, error) {
	shelf, err := requireShelfOwner(db, shelfID, requesterID)
	if err != nil {
		return nil, err
	}

	var currentShelfID *int
	err = db.QueryRow(`SELECT shelf_id FROM books WHERE id = $1`, bookID).Scan(&currentShelfID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if currentShelfID != nil && *currentShelfID == shelfID {
		return nil, common.ErrAlreadyOnShelf
	}

	if _, err := db.Exec(
		`UPDATE books SET shelf_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		shelfID, bookID,
	); err != nil {
		return nil, err
	}

	if err := attachShelfBooks(db, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// RemoveBookFromShelf clears the book's shelf reference. Removing a book that
// is not on the shelf (or does not exist) succeeds without changing anything.
func RemoveBookFromShelf(db *sql.DB, shelfID, bookID, requesterID int) (*models.Shelf, error) {
	shelf, err := requireShelfOwner(db, shelfID, requesterID)
	if err != nil {
		return nil, err
	}

	var currentShelfID *int
	err = db.QueryRow(`SELECT shelf_id FROM books WHERE id = $1`, bookID).Scan(&currentShelfID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err == nil && currentShelfID != nil && *currentShelfID == shelfID {
		if _, err := db.Exec(
			`UPDATE books SET shelf_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			bookID,
		); err != nil {
			return nil, err
		}
	}

	if err := attachShelfBooks(db, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}
