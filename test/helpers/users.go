package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"craftfolio_backend/internal/auth"
	"craftfolio_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateUser создает пользователя напрямую в БД с хешированием пароля
func CreateUser(t *testing.T, db *gorm.DB, profile *models.Profile, rawPassword string) {
	hashed, err := auth.HashPassword(rawPassword)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	profile.PasswordHash = hashed

	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", profile.Email, err)
	}
}

// SignIn логинит пользователя через API и возвращает токен
func SignIn(t *testing.T, ts *TestServer, email, password string) string {
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var signInResponse struct {
		Token string `json:"access_token"`
	}
	err := json.Unmarshal([]byte(body), &signInResponse)
	require.NoError(t, err, "Не удалось распарсить JSON")
	require.NotEmpty(t, signInResponse.Token, "Токен не должен быть пустым")
	return signInResponse.Token
}

// CreateAndSignIn создает пользователя в БД и логинит его через API
func CreateAndSignIn(t *testing.T, ts *TestServer, fullName string, role models.UserRole) (string, *models.Profile) {
	email := fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano())
	password := "password123"

	profile := &models.Profile{
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
	CreateUser(t, ts.DB, profile, password)

	token := SignIn(t, ts, email, password)
	return token, profile
}

// CreateAndSignInSeeker создает соискателя с уникальным email
func CreateAndSignInSeeker(t *testing.T, ts *TestServer) (string, *models.Profile) {
	return CreateAndSignIn(t, ts, "Test Seeker", models.UserRoleSeeker)
}

// CreateAndSignInHirer создает нанимателя с уникальным email
func CreateAndSignInHirer(t *testing.T, ts *TestServer) (string, *models.Profile) {
	return CreateAndSignIn(t, ts, "Test Hirer", models.UserRoleHirer)
}

// CreateAndSignInAdmin создает админа с уникальным email.
// Через API роль admin не выдается, поэтому только прямой сидинг.
func CreateAndSignInAdmin(t *testing.T, ts *TestServer) (string, *models.Profile) {
	return CreateAndSignIn(t, ts, "Test Admin", models.UserRoleAdmin)
}
