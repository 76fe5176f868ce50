package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
)

func setupTestDB() *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}
	testDB.AutoMigrate(&models.User{}, &models.Book{}, &models.BookRequest{})
	return testDB
}

func createTestUser(t *testing.T, email string, role models.Role) models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(digest),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestBook(t *testing.T, title string) models.Book {
	t.Helper()
	book := models.Book{
		BookUid:  uuid.New().String(),
		Title:    title,
		Author:   "Test Author",
		Category: "Fiction",
		Status:   models.BookAvailable,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

func callHandler(handler gin.HandlerFunc, method, target, body string, params gin.Params) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params

	handler(c)
	return w
}

func TestHealthCheck(t *testing.T) {
	db = setupTestDB()

	w := callHandler(healthCheck, "GET", "/manage/health", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSeedDefaultUsersIdempotent(t *testing.T) {
	db = setupTestDB()

	seedDefaultUsers()
	seedDefaultUsers()

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 seeded accounts, got %d", count)
	}

	var admin models.User
	if err := db.Where("email = ?", "admin@bookies.com").First(&admin).Error; err != nil {
		t.Fatalf("default admin missing: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", admin.Role)
	}
}
