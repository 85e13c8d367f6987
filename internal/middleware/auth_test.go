package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/models"
	"ngplus/api/internal/repository"
	"ngplus/api/internal/security"
)

type stubUserLoader struct {
	users map[string]models.User
}

func (s stubUserLoader) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

const accessSecret = "test-access-secret"

func authTestRouter(t *testing.T, loader UserLoader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", Auth(accessSecret, loader), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	alice := models.User{ID: "u-1", Username: "alice", AccountType: models.AccountTypeUser}
	loader := stubUserLoader{users: map[string]models.User{"u-1": alice}}
	router := authTestRouter(t, loader)

	validToken, _, err := security.IssueToken(accessSecret, alice, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	refreshLike, _, err := security.IssueToken("other-secret", alice, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	expired, _, err := security.IssueToken(accessSecret, alice, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	deletedUser, _, err := security.IssueToken(accessSecret, models.User{ID: "gone"}, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + refreshLike, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"deleted user", "Bearer " + deletedUser, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthErrorEnvelope(t *testing.T) {
	router := authTestRouter(t, stubUserLoader{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body struct {
		StatusCode int    `json:"statusCode"`
		Timestamp  string `json:"timestamp"`
		Path       string `json:"path"`
		Message    string `json:"message"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.StatusCode != http.StatusUnauthorized || body.Path != "/me" || body.Error != "Unauthorized" {
		t.Errorf("envelope = %+v", body)
	}
	if body.Timestamp == "" || body.Message == "" {
		t.Errorf("incomplete envelope = %+v", body)
	}
}
