package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/dealdesk/internal/http/analytics"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/document"
	mw "github.com/MrJamesThe3rd/dealdesk/internal/http/middleware"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/property"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/task"
)

type Options struct {
	AllowedOrigins []string
	// AuthRateLimit is the number of requests per minute per IP on /auth.
	AuthRateLimit int64
}

type Handlers struct {
	Auth       *auth.Handler
	Deals      *deal.Handler
	Contacts   *contact.Handler
	Properties *property.Handler
	Tasks      *task.Handler
	Documents  *document.Handler
	Analytics  *analytics.Handler
}

func New(opts Options, authn mw.Authenticator, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(mw.RateLimit(opts.AuthRateLimit))
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(authn))

			r.Get("/me", h.Auth.Me)
			r.Route("/deals", h.Deals.Routes)
			r.Route("/contacts", h.Contacts.Routes)
			r.Route("/properties", h.Properties.Routes)
			r.Route("/tasks", h.Tasks.Routes)
			r.Route("/documents", h.Documents.Routes)
			r.Route("/analytics", h.Analytics.Routes)
		})
	})

	return router
}
