package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/services"
)

func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// CreateShelf creates a shelf for the authenticated user.
func CreateShelf(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var errs []string
	name := strings.TrimSpace(req.Name)
	if name != "" && !isValidShelfName(name) {
		errs = append(errs, "name must be between 2 and 50 characters")
	}
	if hasDuplicateIDs(req.BookIDs) {
		errs = append(errs, "book_ids must not contain duplicates")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	shelf, err := services.CreateShelf(database.DB, userID, req)
	if err != nil {
		respondError(c, err, "Error creating shelf")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Shelf created successfully",
		"shelf":   shelf,
	})
}

// GetShelves lists the authenticated user's shelves.
func GetShelves(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	params := parseListQueryParams(c.Query("limit"), c.Query("offset"), "")

	shelves, totalCount, err := services.ListShelves(database.DB, userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Error retrieving shelves")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shelves": shelves,
		"pagination": gin.H{
			"limit":  params.Limit,
			"offset": params.Offset,
			"total":  totalCount,
		},
	})
}

// GetShelf returns one shelf with its books, gated by ownership.
func GetShelf(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := services.GetShelf(database.DB, shelfID, userID)
	if err != nil {
		respondError(c, err, "Error retrieving shelf")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shelf": shelf})
}

// UpdateShelf applies a partial update to a shelf.
func UpdateShelf(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var errs []string
	if req.Name != nil && !isValidShelfName(strings.TrimSpace(*req.Name)) {
		errs = append(errs, "name must be between 2 and 50 characters")
	}
	if req.BookIDs != nil && hasDuplicateIDs(*req.BookIDs) {
		errs = append(errs, "book_ids must not contain duplicates")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	shelf, err := services.UpdateShelf(database.DB, shelfID, userID, req)
	if err != nil {
		respondError(c, err, "Error updating shelf")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shelf updated successfully",
		"shelf":   shelf,
	})
}

// DeleteShelf removes a shelf after clearing the shelf reference on each of
// its books.
func DeleteShelf(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteShelf(database.DB, shelfID, userID); err != nil {
		respondError(c, err, "Error deleting shelf")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shelf deleted successfully"})
}

// AddShelfBook puts a book on the shelf.
func AddShelfBook(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShelfBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "book_id is required"})
		return
	}

	shelf, err := services.AddBookToShelf(database.DB, shelfID, req.BookID, userID)
	if err != nil {
		respondError(c, err, "Error adding book to shelf")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book added to shelf",
		"shelf":   shelf,
	})
}

// RemoveShelfBook takes a book off the shelf. Removing a book that is not on
// the shelf succeeds without changing anything.
func RemoveShelfBook(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.ShelfBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "book_id is required"})
		return
	}

	shelf, err := services.RemoveBookFromShelf(database.DB, shelfID, req.BookID, userID)
	if err != nil {
		respondError(c, err, "Error removing book from shelf")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book removed from shelf",
		"shelf":   shelf,
	})
}
