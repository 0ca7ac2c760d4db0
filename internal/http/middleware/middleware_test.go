package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/middleware"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type authFunc func(token string) (session.Session, error)

func (f authFunc) Authenticate(token string) (session.Session, error) { return f(token) }

func TestRequireSession(t *testing.T) {
	agent := session.Session{UserID: uuid.New(), Role: session.RoleAgent}

	authn := authFunc(func(token string) (session.Session, error) {
		if token == "good" {
			return agent, nil
		}

		return session.Session{}, errors.New("bad signature")
	})

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "Valid", header: "Bearer good", wantCode: http.StatusOK},
		{name: "Invalid", header: "Bearer forged", wantCode: http.StatusUnauthorized},
		{name: "Missing", header: "", wantCode: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic good", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got session.Session

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var ok bool
				got, ok = session.FromContext(r.Context())
				require.True(t, ok)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			middleware.RequireSession(authn)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, agent, got)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
