package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"codeberg.org/relaychat/server/relaychat/users"
)

// in-memory credential store for handler tests
type stubStore struct {
	byEmail map[string]*users.User
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubStore) FindByID(ctx context.Context, id string) (*users.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubStore) Create(ctx context.Context, req *users.CreateUserRequest) (*users.User, error) {
	user := &users.User{
		ID:           "new-user",
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
	}
	s.byEmail[req.Email] = user
	return user, nil
}

func loginTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubStore{byEmail: map[string]*users.User{
		"known@example.com": {
			ID:           "user-1",
			Email:        "known@example.com",
			Username:     "known",
			PasswordHash: string(hash),
		},
	}}

	router := gin.New()
	router.POST("/login", LoginHandler(store))
	return router
}

func postLogin(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginHandlerSuccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	router := loginTestRouter(t)
	w := postLogin(t, router, `{"email": "known@example.com", "password": "correct-password"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user logged in successfully")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")
}

func TestLoginHandlerUniformInvalidCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing")

	router := loginTestRouter(t)

	// unknown account and wrong password are indistinguishable in the response
	missing := postLogin(t, router, `{"email": "nobody@example.com", "password": "whatever-pass"}`)
	wrongPw := postLogin(t, router, `{"email": "known@example.com", "password": "whatever-pass"}`)

	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, http.StatusBadRequest, wrongPw.Code)
	assert.Equal(t, wrongPw.Body.String(), missing.Body.String())

	assert.Contains(t, missing.Body.String(), "invalid credentials")
	assert.NotContains(t, missing.Body.String(), "not found")
}

func TestLoginDummyHashIsValidBcrypt(t *testing.T) {
	// the unknown-email path must pay a real hash comparison, which requires
	// the filler hash to parse as bcrypt
	cost, err := bcrypt.Cost(dummyPasswordHash)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, bcrypt.MinCost)

	err = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte("any-guess"))
	assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
}
