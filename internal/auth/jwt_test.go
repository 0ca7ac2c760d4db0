package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/session"
)

const secret = "test-secret-that-is-at-least-32-chars"

func TestJWTManager_RoundTrip(t *testing.T) {
	m := auth.NewJWTManager(secret, "dealdesk", time.Hour)
	in := session.Session{UserID: uuid.New(), Email: "boss@example.com", Role: session.RoleAdmin}

	token, expires, err := m.Generate(in)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	out, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.IsPrivileged())
}

func TestJWTManager_Validate_Rejects(t *testing.T) {
	m := auth.NewJWTManager(secret, "dealdesk", time.Hour)
	sess := session.Session{UserID: uuid.New(), Role: session.RoleAgent}

	expired, _, err := auth.NewJWTManager(secret, "dealdesk", -time.Minute).Generate(sess)
	require.NoError(t, err)

	otherSecret, _, err := auth.NewJWTManager("another-secret-that-is-32-chars-long", "dealdesk", time.Hour).Generate(sess)
	require.NoError(t, err)

	otherIssuer, _, err := auth.NewJWTManager(secret, "someone-else", time.Hour).Generate(sess)
	require.NoError(t, err)

	tests := map[string]string{
		"Empty":       "",
		"Garbage":     "not.a.token",
		"Expired":     expired,
		"OtherSecret": otherSecret,
		"OtherIssuer": otherIssuer,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Validate(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestJWTManager_UnknownRoleIsAgent(t *testing.T) {
	m := auth.NewJWTManager(secret, "dealdesk", time.Hour)

	token, _, err := m.Generate(session.Session{UserID: uuid.New(), Role: "superuser"})
	require.NoError(t, err)

	out, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, session.RoleAgent, out.Role)
}
