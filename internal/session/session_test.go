package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	secret := []byte("super-secret")

	tok, err := Issue("alice", true, secret, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()
	secret := []byte("k")

	a, err := Issue("alice", false, secret, time.Hour)
	require.NoError(t, err)
	b, err := Issue("alice", false, secret, time.Hour)
	require.NoError(t, err)

	ca, err := Parse(a, secret)
	require.NoError(t, err)
	cb, err := Parse(b, secret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()
	secret := []byte("right-secret")

	expired, err := Issue("alice", false, secret, -time.Second)
	require.NoError(t, err)
	foreign, err := Issue("alice", false, []byte("wrong-secret"), time.Hour)
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	anonymous, err := Issue("", false, secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "none algorithm", token: unsigned},
		{name: "no subject", token: anonymous},
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNoSecret(t *testing.T) {
	t.Parallel()

	_, err := Issue("alice", false, nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = Parse("x", nil)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"}}
	got, ok := FromContext(WithClaims(context.Background(), c))
	require.True(t, ok)
	assert.Equal(t, "bob", got.Username())
}
