package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newVerifier(t *testing.T) *DemoVerifier {
	t.Helper()
	v, err := NewDemoVerifier(bcrypt.MinCost)
	require.NoError(t, err)
	return v
}

func TestDemoVerifier(t *testing.T) {
	v := newVerifier(t)

	tests := []struct {
		name     string
		email    string
		password string
		ok       bool
	}{
		{"exact", DemoEmail, DemoPassword, true},
		{"email case and spaces", "  shafaqmandha@SCENTIFY.com ", DemoPassword, true},
		{"wrong password", DemoEmail, "password124", false},
		{"password is case sensitive", DemoEmail, "PASSWORD123", false},
		{"unknown email", "someone@scentify.com", DemoPassword, false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := v.Verify(context.Background(), tt.email, tt.password)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DemoEmail, u.Email)
			assert.Equal(t, "Shafaq", u.FirstName)
		})
	}
}

func TestDemoVerifier_ReturnsCopies(t *testing.T) {
	v := newVerifier(t)

	u, err := v.Verify(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
	u.FirstName = "Changed"

	again, err := v.Verify(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, "Shafaq", again.FirstName)
}

func TestClientTokens_RoundTrip(t *testing.T) {
	tokens := NewClientTokens("secret", time.Hour)

	token, expires, err := tokens.Issue("client-42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "client-42", id)
}

func TestClientTokens_Rejects(t *testing.T) {
	tokens := NewClientTokens("secret", time.Hour)
	good, _, err := tokens.Issue("client-42")
	require.NoError(t, err)

	other := NewClientTokens("other-secret", time.Hour)
	forged, _, err := other.Issue("client-42")
	require.NoError(t, err)

	expired := NewClientTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.Issue("client-42")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "client-42",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"expired":      stale,
		"alg none":     none,
		"tampered":     good[:strings.LastIndex(good, ".")] + ".AAAA",
		"empty":        "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.Error(t, err)
		})
	}
}
