package main

import (
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
	"github.com/pbhavyasri5/Bookies-1/pkg/token"
)

const tokenTTL = 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func signup(c *gin.Context) {
	var request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	log.Printf("Signup request received for email: %s", request.Email)

	if request.Name == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Name is required")
		return
	}
	if request.Email == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Email is required")
		return
	}
	if !emailPattern.MatchString(request.Email) {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid email format")
		return
	}
	if request.Password == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Password is required")
		return
	}
	if len(request.Password) < 6 {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Password must be at least 6 characters")
		return
	}

	var existing models.User
	if err := db.Where("email = ?", request.Email).First(&existing).Error; err == nil {
		log.Printf("Email already registered: %s", request.Email)
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Email already registered")
		return
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Server error, please try again later")
		return
	}

	role := models.RoleUser
	if models.Role(request.Role) == models.RoleAdmin {
		role = models.RoleAdmin
	}

	user := models.User{
		Name:     request.Name,
		Email:    request.Email,
		Password: string(digest),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Server error, please try again later")
		return
	}

	log.Printf("User registered: %s as %s", user.Email, user.Role)
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

func login(c *gin.Context) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	log.Printf("Login request for: %s", request.Email)

	if request.Email == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Email is required")
		return
	}
	if request.Password == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Password is required")
		return
	}

	var user models.User
	if err := db.Where("LOWER(email) = LOWER(?)", request.Email).First(&user).Error; err != nil {
		log.Printf("User not found: %s", request.Email)
		errorJSON(c, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		log.Printf("Invalid password for: %s", request.Email)
		errorJSON(c, http.StatusUnauthorized, "Authentication Failed", "Invalid password")
		return
	}

	signed, err := token.Generate(user.Email, user.Role, tokenTTL)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Server error, please try again later")
		return
	}

	log.Printf("Login successful: %s as %s", user.Email, user.Role)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   signed,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func changePassword(c *gin.Context) {
	var request struct {
		Email           string `json:"email"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	log.Printf("Change password for: %s", request.Email)

	if request.Email == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Email is required")
		return
	}
	if request.CurrentPassword == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "Current password is required")
		return
	}
	if request.NewPassword == "" {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "New password is required")
		return
	}
	if len(request.NewPassword) < 6 {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "New password must be at least 6 characters")
		return
	}

	var user models.User
	if err := db.Where("email = ?", request.Email).First(&user).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.CurrentPassword)); err != nil {
		log.Printf("Incorrect password for: %s", request.Email)
		errorJSON(c, http.StatusUnauthorized, "Authentication Failed", "Incorrect current password")
		return
	}

	if request.NewPassword == request.CurrentPassword {
		errorJSON(c, http.StatusBadRequest, "Bad Request", "New password must be different from current password")
		return
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Server error, please try again later")
		return
	}

	if err := db.Model(&user).Update("password", string(digest)).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Internal Server Error", "Server error, please try again later")
		return
	}

	log.Printf("Password updated for: %s", request.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
