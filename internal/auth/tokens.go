package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "scentify-storefront"

// ClientTokens signs the anonymous client id into an HS256 JWT.
type ClientTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewClientTokens(secret string, ttl time.Duration) *ClientTokens {
	return &ClientTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs clientID as the token subject.
func (t *ClientTokens) Issue(clientID string) (string, time.Time, error) {
	now := t.now().UTC()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign client token: %w", err)
	}
	return signed, expires, nil
}

// Verify returns the client id of a valid token.
func (t *ClientTokens) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse client token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid client token claims")
	}
	return claims.Subject, nil
}
