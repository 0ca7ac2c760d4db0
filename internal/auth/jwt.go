package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and validates HS256 session tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Generate signs a token carrying the session's user id, email and role.
func (m *JWTManager) Generate(sess session.Session) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: sess.Email,
		Role:  string(sess.Role),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expires, nil
}

// Validate parses a token and returns the session it was issued for.
func (m *JWTManager) Validate(tokenString string) (session.Session, error) {
	if tokenString == "" {
		return session.Session{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return session.Session{}, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}

	role := session.Role(c.Role)
	if role != session.RoleAdmin {
		role = session.RoleAgent
	}

	return session.Session{UserID: userID, Email: c.Email, Role: role}, nil
}
