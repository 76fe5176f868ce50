package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
	"github.com/pbhavyasri5/Bookies-1/pkg/token"
)

func TestSignup(t *testing.T) {
	db = setupTestDB()

	w := callHandler(signup, "POST", "/auth/signup",
		`{"name": "Alice", "email": "alice@x.com", "password": "secret123"}`, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	err := db.Where("email = ?", "alice@x.com").First(&user).Error
	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	assert.NotEqual(t, "secret123", user.Password)
}

func TestSignupValidation(t *testing.T) {
	db = setupTestDB()

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email": "a@x.com", "password": "secret123"}`},
		{"missing email", `{"name": "A", "password": "secret123"}`},
		{"bad email", `{"name": "A", "email": "not-an-email", "password": "secret123"}`},
		{"short password", `{"name": "A", "email": "a@x.com", "password": "abc"}`},
	}
	for _, tc := range cases {
		w := callHandler(signup, "POST", "/auth/signup", tc.body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db = setupTestDB()
	createTestUser(t, "alice@x.com", models.RoleUser)

	w := callHandler(signup, "POST", "/auth/signup",
		`{"name": "Alice", "email": "alice@x.com", "password": "secret123"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	db = setupTestDB()
	user := createTestUser(t, "alice@x.com", models.RoleAdmin)

	w := callHandler(login, "POST", "/auth/login",
		`{"email": "alice@x.com", "password": "password123"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response["token"])

	claims, err := token.Parse(response["token"].(string))
	assert.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	payload := response["user"].(map[string]interface{})
	assert.Equal(t, "alice@x.com", payload["email"])
	assert.Equal(t, "ADMIN", payload["role"])
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	db = setupTestDB()
	createTestUser(t, "alice@x.com", models.RoleUser)

	w := callHandler(login, "POST", "/auth/login",
		`{"email": "ALICE@X.COM", "password": "password123"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginFailures(t *testing.T) {
	db = setupTestDB()
	createTestUser(t, "alice@x.com", models.RoleUser)

	w := callHandler(login, "POST", "/auth/login",
		`{"email": "nobody@x.com", "password": "password123"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = callHandler(login, "POST", "/auth/login",
		`{"email": "alice@x.com", "password": "wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = callHandler(login, "POST", "/auth/login", `{"email": "alice@x.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword(t *testing.T) {
	db = setupTestDB()
	createTestUser(t, "alice@x.com", models.RoleUser)

	w := callHandler(changePassword, "PUT", "/auth/change-password",
		`{"email": "alice@x.com", "currentPassword": "password123", "newPassword": "newsecret1"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	db.Where("email = ?", "alice@x.com").First(&user)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newsecret1")))
}

func TestChangePasswordFailures(t *testing.T) {
	db = setupTestDB()
	createTestUser(t, "alice@x.com", models.RoleUser)

	// wrong current password
	w := callHandler(changePassword, "PUT", "/auth/change-password",
		`{"email": "alice@x.com", "currentPassword": "wrong", "newPassword": "newsecret1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// new password same as current
	w = callHandler(changePassword, "PUT", "/auth/change-password",
		`{"email": "alice@x.com", "currentPassword": "password123", "newPassword": "password123"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// short new password
	w = callHandler(changePassword, "PUT", "/auth/change-password",
		`{"email": "alice@x.com", "currentPassword": "password123", "newPassword": "abc"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown user
	w = callHandler(changePassword, "PUT", "/auth/change-password",
		`{"email": "nobody@x.com", "currentPassword": "password123", "newPassword": "newsecret1"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
