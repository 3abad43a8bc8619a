package models

import (
	"strings"
	"time"
)

// Reading status values for a book.
const (
	StatusRead             = "Read"
	StatusCurrentlyReading = "Currently Reading"
	StatusWantToRead       = "Want to Read"
)

// ValidStatuses lists every accepted reading status.
var ValidStatuses = []string{StatusRead, StatusCurrentlyReading, StatusWantToRead}

// Book is a catalog entry. ShelfID is the only pointer between a book and a
// shelf; it is nil for unshelved books.
type Book struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Authors         []string   `json:"authors"`
	AuthorList      string     `json:"author_list"`
	Genre           *string    `json:"genre,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ISBN            *string    `json:"isbn,omitempty"`
	Tags            []string   `json:"tags"`
	PersonalNotes   *string    `json:"personal_notes,omitempty"`
	Status          *string    `json:"status,omitempty"`
	CoverImageURL   string     `json:"cover_image_url"`
	ShelfID         *int       `json:"shelf_id"`
	Reviews         []Review   `json:"reviews,omitempty"`
	AverageRating   float64    `json:"average_rating"`
	ReviewCount     int        `json:"review_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Review is a user's rating of a book, embedded in the book it belongs to.
type Review struct {
	ID         int       `json:"id"`
	BookID     int       `json:"book_id"`
	ReviewerID int       `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// JoinAuthors renders an author list for display.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}

// AverageRating computes the mean rating of a review set, 0 when empty.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

type CreateBookRequest struct {
	Title           string     `json:"title"`
	Authors         []string   `json:"authors"`
	Genre           *string    `json:"genre"`
	PublicationDate *time.Time `json:"publication_date"`
	ISBN            *string    `json:"isbn"`
	Tags            []string   `json:"tags"`
	PersonalNotes   *string    `json:"personal_notes"`
	Status          *string    `json:"status"`
	CoverImageURL   *string    `json:"cover_image_url"`
	ShelfID         *int       `json:"shelf_id"`
}

type UpdateBookRequest struct {
	Title           *string    `json:"title"`
	Authors         *[]string  `json:"authors"`
	Genre           *string    `json:"genre"`
	PublicationDate *time.Time `json:"publication_date"`
	ISBN            *string    `json:"isbn"`
	Tags            *[]string  `json:"tags"`
	PersonalNotes   *string    `json:"personal_notes"`
	Status          *string    `json:"status"`
	CoverImageURL   *string    `json:"cover_image_url"`
	ShelfID         *int       `json:"shelf_id"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
