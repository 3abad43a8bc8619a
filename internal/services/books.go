package services

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

const bookListQuery = `
	SELECT b.id, b.title, b.authors, b.genre, b.publication_date, b.isbn, b.tags,
	       b.personal_notes, b.status, b.cover_image_url, b.shelf_id, b.created_at, b.updated_at,
	       COALESCE(AVG(r.rating), 0)::float AS average_rating,
	       COUNT(r.id)::int AS review_count
	FROM books b
	LEFT JOIN reviews r ON r.book_id = b.id
`

const bookSearchCondition = `
	(lower(b.title) LIKE $1
	 OR EXISTS (SELECT 1 FROM unnest(b.authors) AS author WHERE lower(author) LIKE $1))
`

// CreateBook adds a book to the catalog. When a shelf is given, the requester
// must own it; the shelf-existence check is a plain read, not an atomic
// guarantee.
func CreateBook(db *sql.DB, requesterID int, req models.CreateBookRequest) (*models.Book, error) {
	if req.ShelfID != nil {
		if _, err := requireShelfOwner(db, *req.ShelfID, requesterID); err != nil {
			return nil, err
		}
	}

	coverImageURL := database.DefaultCoverImage
	if req.CoverImageURL != nil && *req.CoverImageURL != "" {
		coverImageURL = *req.CoverImageURL
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	row := db.QueryRow(
		`INSERT INTO books (title, authors, genre, publication_date, isbn, tags, personal_notes, status, cover_image_url, shelf_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+bookColumns,
		req.Title, pq.Array(req.Authors), req.Genre, req.PublicationDate, req.ISBN,
		pq.Array(tags), req.PersonalNotes, req.Status, coverImageURL, req.ShelfID,
	)
	book, err := scanBook(row, false)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, common.ErrDuplicateISBN
		}
		return nil, err
	}

	book.Reviews = []models.Review{}
	return book, nil
}

// GetBook loads a book together with its reviews.
func GetBook(db *sql.DB, bookID int) (*models.Book, error) {
	row := db.QueryRow(`SELECT `+bookColumns+` FROM books WHERE id = $1`, bookID)
	book, err := scanBook(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if err := attachReviews(db, book); err != nil {
		return nil, err
	}
	return book, nil
}

func attachReviews(db *sql.DB, book *models.Book) error {
	rows, err := db.Query(
		`SELECT id, book_id, reviewer_id, rating, COALESCE(comment, ''), created_at
		 FROM reviews
		 WHERE book_id = $1
		 ORDER BY created_at DESC, id DESC`,
		book.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.BookID, &review.ReviewerID, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	book.Reviews = reviews
	book.ReviewCount = len(reviews)
	book.AverageRating = models.AverageRating(reviews)
	return nil
}

// ListBooks pages through the catalog, optionally narrowed by the same
// title/author substring matching the search endpoint uses.
func ListBooks(db *sql.DB, pattern string, limit, offset int) ([]models.Book, int, error) {
	var totalCount int
	countQuery := `SELECT COUNT(*) FROM books b WHERE $1 = '' OR ` + bookSearchCondition
	if err := db.QueryRow(countQuery, pattern).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := bookListQuery + `
		WHERE $1 = '' OR ` + bookSearchCondition + `
		GROUP BY b.id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3`
	books, err := queryBooks(db, query, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return books, totalCount, nil
}

// SearchBooks matches a case-insensitive substring against the title or any
// author name. Results follow natural storage order; there is no ranking.
func SearchBooks(db *sql.DB, pattern string) ([]models.Book, error) {
	query := bookListQuery + `
		WHERE ` + bookSearchCondition + `
		GROUP BY b.id
		ORDER BY b.id`
	return queryBooks(db, query, pattern)
}

// BooksOnShelf lists the books on a shelf. Reading a shelf's books is reading
// the shelf, so the same ownership gate applies.
func BooksOnShelf(db *sql.DB, shelfID, requesterID int) ([]models.Book, error) {
	if _, err := requireShelfOwner(db, shelfID, requesterID); err != nil {
		return nil, err
	}
	return queryBooks(db, shelfBooksQuery, shelfID)
}

// UpdateBook applies a partial update. Assigning the book to a shelf requires
// owning that shelf.
func UpdateBook(db *sql.DB, requesterID, bookID int, req models.UpdateBookRequest) (*models.Book, error) {
	current, err := GetBook(db, bookID)
	if err != nil {
		return nil, err
	}

	if req.ShelfID != nil {
		if _, err := requireShelfOwner(db, *req.ShelfID, requesterID); err != nil {
			return nil, err
		}
		current.ShelfID = req.ShelfID
	}
	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Authors != nil {
		current.Authors = *req.Authors
	}
	if req.Genre != nil {
		current.Genre = req.Genre
	}
	if req.PublicationDate != nil {
		current.PublicationDate = req.PublicationDate
	}
	if req.ISBN != nil {
		current.ISBN = req.ISBN
	}
	if req.Tags != nil {
		current.Tags = *req.Tags
	}
	if req.PersonalNotes != nil {
		current.PersonalNotes = req.PersonalNotes
	}
	if req.Status != nil {
		current.Status = req.Status
	}
	if req.CoverImageURL != nil {
		current.CoverImageURL = *req.CoverImageURL
	}

	row := db.QueryRow(
		`UPDATE books
		 SET title = $1, authors = $2, genre = $3, publication_date = $4, isbn = $5,
		     tags = $6, personal_notes = $7, status = $8, cover_image_url = $9,
		     shelf_id = $10, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $11
		 RETURNING `+bookColumns,
		current.Title, pq.Array(current.Authors), current.Genre, current.PublicationDate,
		current.ISBN, pq.Array(current.Tags), current.PersonalNotes, current.Status,
		current.CoverImageURL, current.ShelfID, bookID,
	)
	book, err := scanBook(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		if isDuplicateKey(err) {
			return nil, common.ErrDuplicateISBN
		}
		return nil, err
	}

	if err := attachReviews(db, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book; its reviews cascade away with it. Shelf cleanup
// is not needed since the book holds the only pointer.
func DeleteBook(db *sql.DB, bookID int) error {
	result, err := db.Exec(`DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// AddReview records a review and returns the book with its refreshed review
// list and average rating.
func AddReview(db *sql.DB, bookID, reviewerID int, req models.AddReviewRequest) (*models.Book, error) {
	var existingID int
	if err := db.QueryRow(`SELECT id FROM books WHERE id = $1`, bookID).Scan(&existingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if _, err := db.Exec(
		`INSERT INTO reviews (book_id, reviewer_id, rating, comment) VALUES ($1, $2, $3, $4)`,
		bookID, reviewerID, req.Rating, req.Comment,
	); err != nil {
		return nil, err
	}

	return GetBook(db, bookID)
}
