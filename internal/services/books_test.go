package services

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/common"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/database"
	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

func ratedBookRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookWithRatingColumns)
}

func addRatedBook(rows *sqlmock.Rows, id int, title, authors string, avg float64, reviews int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, title, authors, nil, nil, nil, "{}", nil, nil,
		database.DefaultCoverImage, nil, now, now, avg, reviews)
}

func TestSearchBooksMatchesTitleOrAuthor(t *testing.T) {
	db, mock := newMockDB(t)

	rows := ratedBookRows()
	addRatedBook(rows, 1, "Harry Potter and the Philosopher's Stone", `{"J. K. Rowling"}`, 4.5, 2)
	addRatedBook(rows, 2, "Fantastic Beasts", `{"J. K. Rowling"}`, 0, 0)

	mock.
		ExpectQuery(`SELECT b\.id, b\.title`).
		WithArgs("%potter%").
		WillReturnRows(rows)

	books, err := SearchBooks(db, "%potter%")
	if err != nil {
		t.Fatalf("SearchBooks: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].AuthorList != "J. K. Rowling" {
		t.Fatalf("unexpected author list %q", books[0].AuthorList)
	}
	if books[0].AverageRating != 4.5 || books[0].ReviewCount != 2 {
		t.Fatalf("unexpected rating summary: %v / %d", books[0].AverageRating, books[0].ReviewCount)
	}

	expectationsMet(t, mock)
}

func TestSearchBooksNoMatchesReturnsEmptySlice(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(`SELECT b\.id, b\.title`).
		WithArgs("%nothing%").
		WillReturnRows(ratedBookRows())

	books, err := SearchBooks(db, "%nothing%")
	if err != nil {
		t.Fatalf("SearchBooks: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", books)
	}

	expectationsMet(t, mock)
}

func TestListBooksReportsTotalCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(`SELECT COUNT\(\*\) FROM books b`).
		WithArgs("%rowling%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.
		ExpectQuery(`SELECT b\.id, b\.title`).
		WithArgs("%rowling%", 20, 0).
		WillReturnRows(addRatedBook(ratedBookRows(), 3, "The Casual Vacancy", `{"J. K. Rowling"}`, 3, 1))

	books, total, err := ListBooks(db, "%rowling%", 20, 0)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if total != 42 {
		t.Fatalf("expected total 42, got %d", total)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 page row, got %d", len(books))
	}

	expectationsMet(t, mock)
}

func TestCreateBookDefaultsCoverAndTags(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(`INSERT INTO books`).
		WithArgs(
			"Dune", sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg(), nil, nil,
			database.DefaultCoverImage, nil,
		).
		WillReturnRows(bookRow(7, "Dune", `{"Frank Herbert"}`))

	book, err := CreateBook(db, 1, models.CreateBookRequest{
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	})
	if err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if book.CoverImageURL != database.DefaultCoverImage {
		t.Fatalf("expected default cover, got %q", book.CoverImageURL)
	}
	if book.Tags == nil {
		t.Fatal("expected tags to be an empty slice, got nil")
	}
	if book.Reviews == nil || len(book.Reviews) != 0 {
		t.Fatalf("new book should start with no reviews, got %#v", book.Reviews)
	}

	expectationsMet(t, mock)
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(`INSERT INTO books`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "books_isbn_key"`))

	_, err := CreateBook(db, 1, models.CreateBookRequest{Title: "Dune", Authors: []string{"Frank Herbert"}})
	if !errors.Is(err, common.ErrDuplicateISBN) {
		t.Fatalf("expected ErrDuplicateISBN, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestCreateBookOnForeignShelfIsRejected(t *testing.T) {
	db, mock := newMockDB(t)

	shelfID := 9
	mock.
		ExpectQuery(regexp.QuoteMeta(shelfGateQuery)).
		WithArgs(shelfID, 2).
		WillReturnError(sql.ErrNoRows)

	_, err := CreateBook(db, 2, models.CreateBookRequest{
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
		ShelfID: &shelfID,
	})
	if !errors.Is(err, common.ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestGetBookMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(`SELECT id, title`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	_, err := GetBook(db, 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestAddReviewRecomputesAverage(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id FROM books WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.
		ExpectExec(`INSERT INTO reviews`).
		WithArgs(7, 1, 5, "Loved it").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.
		ExpectQuery(`SELECT id, title`).
		WithArgs(7).
		WillReturnRows(bookRow(7, "Dune", `{"Frank Herbert"}`))
	mock.
		ExpectQuery(`SELECT id, book_id, reviewer_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "book_id", "reviewer_id", "rating", "comment", "created_at"}).
			AddRow(3, 7, 1, 5, "Loved it", now).
			AddRow(2, 7, 2, 4, "", now))

	book, err := AddReview(db, 7, 1, models.AddReviewRequest{Rating: 5, Comment: "Loved it"})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if book.ReviewCount != 2 {
		t.Fatalf("expected 2 reviews, got %d", book.ReviewCount)
	}
	if book.AverageRating != 4.5 {
		t.Fatalf("expected average 4.5, got %v", book.AverageRating)
	}

	expectationsMet(t, mock)
}

func TestAddReviewUnknownBook(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id FROM books WHERE id = $1`)).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)

	_, err := AddReview(db, 404, 1, models.AddReviewRequest{Rating: 5})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestDeleteBookMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.
		ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := DeleteBook(db, 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}
