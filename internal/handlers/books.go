package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/services"
)

func validateBookFields(title string, authors []string, isbn, status, coverImageURL *string) []string {
	var errs []string
	if len(strings.TrimSpace(title)) < 2 {
		errs = append(errs, "title must be at least 2 characters")
	}
	if len(authors) == 0 {
		errs = append(errs, "authors must contain at least one author")
	}
	for _, author := range authors {
		if strings.TrimSpace(author) == "" {
			errs = append(errs, "authors must not contain empty names")
			break
		}
	}
	if isbn != nil && !isValidISBN(*isbn) {
		errs = append(errs, "isbn must be a valid ISBN-10 or ISBN-13")
	}
	if status != nil && !isValidStatus(*status) {
		errs = append(errs, "status must be one of Read, Currently Reading, Want to Read")
	}
	if coverImageURL != nil && *coverImageURL != "" && !isValidImageURL(*coverImageURL) {
		errs = append(errs, "cover_image_url must be a valid image URL")
	}
	return errs
}

// CreateBook adds a book to the catalog.
func CreateBook(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if errs := validateBookFields(req.Title, req.Authors, req.ISBN, req.Status, req.CoverImageURL); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	book, err := services.CreateBook(database.DB, userID, req)
	if err != nil {
		respondError(c, err, "Error creating book")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"book":    book,
	})
}

// GetBooks pages through the catalog, optionally narrowed by a search term.
func GetBooks(c *gin.Context) {
	params := parseListQueryParams(c.Query("limit"), c.Query("offset"), c.Query("search"))

	books, totalCount, err := services.ListBooks(database.DB, params.Pattern, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Error retrieving books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"pagination": gin.H{
			"limit":  params.Limit,
			"offset": params.Offset,
			"total":  totalCount,
		},
	})
}

// SearchBooks matches a case-insensitive substring against titles and author
// names.
func SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter q is required"})
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	books, err := services.SearchBooks(database.DB, pattern)
	if err != nil {
		respondError(c, err, "Error searching books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

// GetBooksByShelf lists the books on one of the requester's shelves.
func GetBooksByShelf(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	shelfID, ok := parseIDParam(c, "shelfId")
	if !ok {
		return
	}

	books, err := services.BooksOnShelf(database.DB, shelfID, userID)
	if err != nil {
		respondError(c, err, "Error retrieving shelf books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

// GetBook returns one book with its reviews.
func GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := services.GetBook(database.DB, bookID)
	if err != nil {
		respondError(c, err, "Error retrieving book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// UpdateBook applies a partial update to a book.
func UpdateBook(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var errs []string
	if req.Title != nil && len(strings.TrimSpace(*req.Title)) < 2 {
		errs = append(errs, "title must be at least 2 characters")
	}
	if req.Authors != nil && len(*req.Authors) == 0 {
		errs = append(errs, "authors must contain at least one author")
	}
	if req.ISBN != nil && !isValidISBN(*req.ISBN) {
		errs = append(errs, "isbn must be a valid ISBN-10 or ISBN-13")
	}
	if req.Status != nil && !isValidStatus(*req.Status) {
		errs = append(errs, "status must be one of Read, Currently Reading, Want to Read")
	}
	if req.CoverImageURL != nil && *req.CoverImageURL != "" && !isValidImageURL(*req.CoverImageURL) {
		errs = append(errs, "cover_image_url must be a valid image URL")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	book, err := services.UpdateBook(database.DB, userID, bookID, req)
	if err != nil {
		respondError(c, err, "Error updating book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"book":    book,
	})
}

// DeleteBook removes a book from the catalog.
func DeleteBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteBook(database.DB, bookID); err != nil {
		respondError(c, err, "Error deleting book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// AddReview records the authenticated user's review of a book.
func AddReview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var errs []string
	if req.Rating < 1 || req.Rating > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}
	if len(req.Comment) > 1000 {
		errs = append(errs, "comment must be at most 1000 characters")
	}
	if len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	book, err := services.AddReview(database.DB, bookID, userID, req)
	if err != nil {
		respondError(c, err, "Error adding review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review added successfully",
		"book":    book,
	})
}
