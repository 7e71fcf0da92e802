package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)
	id := uuid.New()

	tok, err := issuer.Issue(id)
	require.NoError(t, err)

	got, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Hour) }

	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_ValidForThirtyDays(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(29 * 24 * time.Hour) }
	_, err = issuer.Parse(tok)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(31 * 24 * time.Hour) }
	_, err = issuer.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Rejects(t *testing.T) {
	issuer := NewIssuer("test-secret", 0)
	other := NewIssuer("other-secret", 0)

	foreign, err := other.Issue(uuid.New())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "foreign signature", token: foreign},
		{name: "alg none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
