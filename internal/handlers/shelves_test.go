package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/blockchaincyberpunk1/shelflife-backend/internal/models"
)

var shelfTestColumns = []string{"id", "name", "owner_id", "created_at", "updated_at"}

func shelfRow(id int, name string, ownerID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(shelfTestColumns).AddRow(id, name, ownerID, now, now)
}

var bookWithRatingColumns = []string{
	"id", "title", "authors", "genre", "publication_date", "isbn", "tags",
	"personal_notes", "status", "cover_image_url", "shelf_id", "created_at", "updated_at",
	"average_rating", "review_count",
}

func emptyShelfBooks() *sqlmock.Rows {
	return sqlmock.NewRows(bookWithRatingColumns)
}

const shelfOwnerQuery = `SELECT id, name, owner_id, created_at, updated_at FROM shelves WHERE id = $1 AND owner_id = $2`

func TestCreateShelfDefaultsNameWhenOmitted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	userID := 7
	mock.ExpectBegin()
	mock.
		ExpectQuery(`INSERT INTO shelves`).
		WithArgs(models.DefaultShelfName, userID).
		WillReturnRows(shelfRow(4, models.DefaultShelfName, userID))
	mock.ExpectCommit()
	mock.
		ExpectQuery(`SELECT b\.id, b\.title`).
		WithArgs(4).
		WillReturnRows(emptyShelfBooks())

	router := gin.New()
	router.POST("/api/shelves", withTestUserID(userID), CreateShelf)

	resp := postJSON(t, router, "/api/shelves", map[string]any{})
	mustStatus(t, resp.Code, http.StatusCreated)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	shelf, _ := out["shelf"].(map[string]any)
	if shelf == nil || shelf["name"] != models.DefaultShelfName {
		t.Fatalf("expected default shelf name, got %s", resp.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreateShelfRejectsDuplicateBookIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/api/shelves", withTestUserID(7), CreateShelf)

	resp := postJSON(t, router, "/api/shelves", map[string]any{
		"name":     "Favorites",
		"book_ids": []int{3, 3},
	})
	mustStatus(t, resp.Code, http.StatusBadRequest)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetShelfOwnedBySomeoneElseIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// Shelf 4 belongs to user 1; user 2 asks for it.
	mock.
		ExpectQuery(regexp.QuoteMeta(shelfOwnerQuery)).
		WithArgs(4, 2).
		WillReturnError(sql.ErrNoRows)

	router := gin.New()
	router.GET("/api/shelves/:id", withTestUserID(2), GetShelf)

	req := httptest.NewRequest(http.MethodGet, "/api/shelves/4", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusNotFound)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGetShelvesPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	userID := 7
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM shelves WHERE owner_id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	now := time.Now()
	mock.
		ExpectQuery(`SELECT s\.id, s\.name`).
		WithArgs(userID, 2, 0).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "owner_id", "created_at", "updated_at", "book_count"}).
				AddRow(4, "Favorites", userID, now, now, 5).
				AddRow(5, "To Read", userID, now, now, 0),
		)

	router := gin.New()
	router.GET("/api/shelves", withTestUserID(userID), GetShelves)

	req := httptest.NewRequest(http.MethodGet, "/api/shelves?limit=2&offset=0", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	expectHTTP200(t, resp.Code)

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	shelves, _ := out["shelves"].([]any)
	if len(shelves) != 2 {
		t.Fatalf("expected 2 shelves, got %d", len(shelves))
	}
	pagination, _ := out["pagination"].(map[string]any)
	if pagination == nil || int(pagination["total"].(float64)) != 3 {
		t.Fatalf("expected total=3, got %s", resp.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestDeleteShelfForeignOwnerIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.
		ExpectQuery(regexp.QuoteMeta(shelfOwnerQuery)).
		WithArgs(4, 2).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	router := gin.New()
	router.DELETE("/api/shelves/:id", withTestUserID(2), DeleteShelf)

	req := httptest.NewRequest(http.MethodDelete, "/api/shelves/4", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusNotFound)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestAddShelfBookAlreadyOnShelfIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	userID := 7
	mock.
		ExpectQuery(regexp.QuoteMeta(shelfOwnerQuery)).
		WithArgs(4, userID).
		WillReturnRows(shelfRow(4, "Favorites", userID))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT shelf_id FROM books WHERE id = $1`)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"shelf_id"}).AddRow(4))

	router := gin.New()
	router.POST("/api/shelves/:id/books", withTestUserID(userID), AddShelfBook)

	resp := postJSON(t, router, "/api/shelves/4/books", map[string]any{"book_id": 8})
	mustStatus(t, resp.Code, http.StatusBadRequest)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRemoveShelfBookAbsentSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	userID := 7
	mock.
		ExpectQuery(regexp.QuoteMeta(shelfOwnerQuery)).
		WithArgs(4, userID).
		WillReturnRows(shelfRow(4, "Favorites", userID))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT shelf_id FROM books WHERE id = $1`)).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"shelf_id"}).AddRow(nil))
	mock.
		ExpectQuery(`SELECT b\.id, b\.title`).
		WithArgs(4).
		WillReturnRows(emptyShelfBooks())

	router := gin.New()
	router.DELETE("/api/shelves/:id/books", withTestUserID(userID), RemoveShelfBook)

	payload := []byte(`{"book_id": 8}`)
	req := httptest.NewRequest(http.MethodDelete, "/api/shelves/4/books", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	expectHTTP200(t, resp.Code)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
