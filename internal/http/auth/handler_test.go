package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	authhttp "github.com/MrJamesThe3rd/dealdesk/internal/http/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/middleware"
)

func newRouter(t *testing.T) (http.Handler, *auth.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := auth.NewMockRepository(ctrl)
	svc := auth.NewService(repo, auth.NewJWTManager("test-secret-test-secret", "dealdesk", time.Hour), nil)
	h := authhttp.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/auth", h.Routes)
	r.With(middleware.RequireSession(svc)).Get("/me", h.Me)

	return r, repo
}

func TestHandler_RegisterThenMe(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *auth.User) error {
			u.ID = uuid.New()
			return nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"Ana@Example.com","password":"password123"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var tok struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))
	require.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "ana@example.com", tok.User.Email)
	assert.Equal(t, "agent", tok.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@example.com")
}

func TestHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     string
		user     *auth.User
		repoErr  error
		wantCode int
	}{
		{
			name:     "Valid",
			body:     `{"email":"ana@example.com","password":"password123"}`,
			user:     &auth.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash), Role: "agent"},
			wantCode: http.StatusOK,
		},
		{
			name:     "WrongPassword",
			body:     `{"email":"ana@example.com","password":"nope-nope"}`,
			user:     &auth.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "UnknownUser",
			body:     `{"email":"ghost@example.com","password":"password123"}`,
			repoErr:  auth.ErrNotFound,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "Malformed",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)

			if tt.user != nil || tt.repoErr != nil {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(tt.user, tt.repoErr)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
