package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apihttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/document"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/property"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/task"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type staticAuth struct{}

func (staticAuth) Authenticate(token string) (session.Session, error) {
	if token == "agent-token" {
		return session.Session{UserID: uuid.New(), Email: "agent@example.com", Role: session.RoleAgent}, nil
	}

	return session.Session{}, errors.New("unknown token")
}

func newRouter() http.Handler {
	return apihttp.New(
		apihttp.Options{AllowedOrigins: []string{"https://app.example"}, AuthRateLimit: 100},
		staticAuth{},
		apihttp.Handlers{
			Auth:       auth.NewHandler(nil),
			Deals:      deal.NewHandler(nil, nil),
			Contacts:   contact.NewHandler(nil, nil),
			Properties: property.NewHandler(nil),
			Tasks:      task.NewHandler(nil),
			Documents:  document.NewHandler(nil),
			Analytics:  analytics.NewHandler(nil),
		},
	)
}

func TestRouter(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name     string
		method   string
		path     string
		header   map[string]string
		body     string
		wantCode int
	}{
		{name: "Health", method: http.MethodGet, path: "/healthz", wantCode: http.StatusOK},
		{name: "DealsNeedToken", method: http.MethodGet, path: "/api/v1/deals/", wantCode: http.StatusUnauthorized},
		{name: "ForgedToken", method: http.MethodGet, path: "/api/v1/tasks/", header: map[string]string{"Authorization": "Bearer forged"}, wantCode: http.StatusUnauthorized},
		{name: "Me", method: http.MethodGet, path: "/api/v1/me", header: map[string]string{"Authorization": "Bearer agent-token"}, wantCode: http.StatusOK},
		{name: "AuthNeedsJSON", method: http.MethodPost, path: "/api/v1/auth/login", header: map[string]string{"Content-Type": "text/plain"}, body: "x", wantCode: http.StatusUnsupportedMediaType},
		{name: "UnknownRoute", method: http.MethodGet, path: "/api/v2/deals", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/deals/", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
