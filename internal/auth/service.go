// Package auth manages user accounts and the session tokens issued to them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         session.Role
	CreatedAt    time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo        Repository
	tokens      *JWTManager
	adminEmails []string
	hashCost    int
}

// NewService creates the account service. Accounts registered with an
// address in adminEmails get the admin role.
func NewService(repo Repository, tokens *JWTManager, adminEmails []string) *Service {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins = append(admins, e)
		}
	}

	return &Service{repo: repo, tokens: tokens, adminEmails: admins, hashCost: bcrypt.DefaultCost}
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,gte=8"`
}

// Token is what a successful register or login returns to the client.
type Token struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Session     session.Session `json:"-"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, creds Credentials) (*Token, error) {
	creds.Email = normalizeEmail(creds.Email)

	if err := validation.Struct(creds); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{Email: creds.Email, PasswordHash: string(hash), Role: session.RoleAgent}
	if slices.Contains(s.adminEmails, u.Email) {
		u.Role = session.RoleAdmin
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", u.ID, "role", u.Role)

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *Service) issue(u *User) (*Token, error) {
	sess := session.Session{UserID: u.ID, Email: u.Email, Role: u.Role}

	token, expires, err := s.tokens.Generate(sess)
	if err != nil {
		return nil, err
	}

	return &Token{AccessToken: token, ExpiresAt: expires, Session: sess}, nil
}

// Authenticate resolves a bearer token to its session.
func (s *Service) Authenticate(token string) (session.Session, error) {
	return s.tokens.Validate(token)
}
