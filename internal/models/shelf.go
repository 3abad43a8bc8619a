package models

import "time"

// DefaultShelfName is used when a shelf is created with an empty name.
const DefaultShelfName = "New Shelf"

// Shelf is a named, user-owned collection of books. Membership lives on the
// book side (Book.ShelfID), so a shelf can never hold the same book twice.
// The owner is bound at creation and never reassignable.
type Shelf struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"owner_id"`
	Books     []Book    `json:"books,omitempty"`
	BookCount int       `json:"book_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateShelfRequest struct {
	Name    string `json:"name"`
	BookIDs []int  `json:"book_ids"`
}

type UpdateShelfRequest struct {
	Name    *string `json:"name"`
	BookIDs *[]int  `json:"book_ids"`
}

type ShelfBookRequest struct {
	BookID int `json:"book_id" binding:"required"`
}
