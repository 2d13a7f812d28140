package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightbooking/internal/auth"
	"flightbooking/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func postJSON(w *httptest.ResponseRecorder, path string, payload interface{}) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(payload)
	c.Request = httptest.NewRequest("POST", path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestAuthHandler_register(t *testing.T) {
	users := &MockUserRepository{}
	handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	c := postJSON(w, "/api/auth/register", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cretpass",
	})

	users.On("Create", c.Request.Context(), mock.AnythingOfType("*domain.User")).Return(nil).Once()

	handler.register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["token"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "ada", user["username"])
	assert.Equal(t, string(domain.RoleUser), user["role"])
	// the stored user carries a bcrypt hash, never the raw password
	created := users.Calls[0].Arguments.Get(1).(*domain.User)
	assert.NotEqual(t, "s3cretpass", created.PasswordHash)
	assert.True(t, auth.CheckPassword(created.PasswordHash, "s3cretpass"))
}

func TestAuthHandler_register_validation(t *testing.T) {
	users := &MockUserRepository{}
	handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

	testCases := []struct {
		name    string
		payload gin.H
	}{
		{name: "missing email", payload: gin.H{"username": "ada", "password": "s3cretpass"}},
		{name: "bad email", payload: gin.H{"username": "ada", "email": "nope", "password": "s3cretpass"}},
		{name: "short password", payload: gin.H{"username": "ada", "email": "ada@example.com", "password": "short"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c := postJSON(w, "/api/auth/register", tc.payload)

			handler.register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	users.AssertNotCalled(t, "Create")
}

func TestAuthHandler_register_duplicateEmail(t *testing.T) {
	users := &MockUserRepository{}
	handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

	w := httptest.NewRecorder()
	c := postJSON(w, "/api/auth/register", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cretpass",
	})

	users.On("Create", c.Request.Context(), mock.AnythingOfType("*domain.User")).
		Return(domain.E(domain.KindConflict, "Email already registered")).Once()

	handler.register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_login(t *testing.T) {
	hash, _ := auth.HashPassword("s3cretpass")
	stored := &domain.User{
		ID:           "user-1",
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	t.Run("success", func(t *testing.T) {
		users := &MockUserRepository{}
		handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

		w := httptest.NewRecorder()
		c := postJSON(w, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "s3cretpass"})
		users.On("GetByEmail", c.Request.Context(), "ada@example.com").Return(stored, nil).Once()

		handler.login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &MockUserRepository{}
		handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

		w := httptest.NewRecorder()
		c := postJSON(w, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "wrongpass"})
		users.On("GetByEmail", c.Request.Context(), "ada@example.com").Return(stored, nil).Once()

		handler.login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown account looks the same", func(t *testing.T) {
		users := &MockUserRepository{}
		handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

		w := httptest.NewRecorder()
		c := postJSON(w, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "whatever"})
		users.On("GetByEmail", c.Request.Context(), "nobody@example.com").
			Return(nil, domain.E(domain.KindNotFound, "user not found")).Once()

		handler.login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid credentials", resp["message"])
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := *stored
		inactive.IsActive = false

		users := &MockUserRepository{}
		handler := NewAuthHandler(users, auth.NewManager("test-secret", time.Hour))

		w := httptest.NewRecorder()
		c := postJSON(w, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "s3cretpass"})
		users.On("GetByEmail", c.Request.Context(), "ada@example.com").Return(&inactive, nil).Once()

		handler.login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
