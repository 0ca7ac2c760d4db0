package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/http/render"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the public account endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type tokenResponse struct {
	*auth.Token
	User meResponse `json:"user"`
}

type meResponse struct {
	ID    uuid.UUID    `json:"id"`
	Email string       `json:"email"`
	Role  session.Role `json:"role"`
}

func toMe(s session.Session) meResponse {
	return meResponse{ID: s.UserID, Email: s.Email, Role: s.Role}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := h.svc.Register(r.Context(), creds)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, tokenResponse{Token: tok, User: toMe(tok.Session)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := h.svc.Login(r.Context(), creds)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, tokenResponse{Token: tok, User: toMe(tok.Session)})
}

// Me echoes the caller's session. It must sit behind the session middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		render.Message(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	render.JSON(w, http.StatusOK, toMe(sess))
}
