package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pbhavyasri5/Bookies-1/pkg/database"
	"github.com/pbhavyasri5/Bookies-1/pkg/models"
)

var db *gorm.DB

func main() {
	log.Println("Starting bookies backend...")

	var err error
	db, err = database.Connect()
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}

	seedDefaultUsers()

	server := newServer()

	port := getEnv("PORT", "8080")
	log.Printf("Bookies backend starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func newServer() *gin.Engine {
	server := gin.Default()

	server.POST("/auth/signup", signup)
	server.POST("/auth/login", login)
	server.PUT("/auth/change-password", changePassword)

	server.GET("/books", getBooks)
	server.GET("/books/:id", getBook)

	server.GET("/manage/health", healthCheck)

	authorized := server.Group("", authRequired())
	authorized.POST("/requests", createRequest)
	authorized.GET("/requests/user/:email", getUserRequests)
	authorized.GET("/requests/:id", getRequest)

	admin := authorized.Group("", adminOnly())
	admin.GET("/requests/pending", getPendingRequests)
	admin.POST("/requests/:id/approve", approveRequest)
	admin.POST("/requests/:id/reject", rejectRequest)
	admin.DELETE("/requests/:id", deleteRequest)

	admin.POST("/books", createBook)
	admin.PUT("/books/:id", updateBook)
	admin.DELETE("/books/:id", deleteBook)

	return server
}

// seedDefaultUsers provisions the default admin and user accounts once.
// Safe to run on every startup.
func seedDefaultUsers() {
	defaults := []struct {
		name     string
		email    string
		password string
		role     models.Role
	}{
		{"Admin", "admin@bookies.com", "admin123", models.RoleAdmin},
		{"User", "user@bookies.com", "user123", models.RoleUser},
	}

	for _, d := range defaults {
		var existing models.User
		if err := db.Where("email = ?", d.email).First(&existing).Error; err == nil {
			continue
		}
		digest, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v", d.email, err)
			continue
		}
		user := models.User{
			Name:     d.name,
			Email:    d.email,
			Password: string(digest),
			Role:     d.role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create default account %s: %v", d.email, err)
		} else {
			log.Printf("Created default account: %s (%s)", d.email, d.role)
		}
	}
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "UP",
		"details": "bookies backend is active",
	})
}

// errorJSON writes the shared error body used by every failing endpoint.
func errorJSON(c *gin.Context, status int, label, message string) {
	c.JSON(status, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
		"error":     label,
		"message":   message,
	})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
