// Package auth verifies shopper credentials and signs the client identity cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialVerifier resolves an email and password to a user.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*domain.User, error)
}

// Demo account.
const (
	DemoEmail    = "Shafaqmandha@scentify.com"
	DemoPassword = "password123"
)

// DemoVerifier accepts a single built-in account.
type DemoVerifier struct {
	user *domain.User
	hash []byte
}

// NewDemoVerifier hashes the demo password at the given bcrypt cost.
func NewDemoVerifier(cost int) (*DemoVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &DemoVerifier{
		user: &domain.User{
			ID:        "user-1",
			Email:     DemoEmail,
			FirstName: "Shafaq",
			LastName:  "Mandha",
		},
		hash: hash,
	}, nil
}

// Verify matches the email case-insensitively after trimming spaces.
func (v *DemoVerifier) Verify(_ context.Context, email, password string) (*domain.User, error) {
	if !strings.EqualFold(strings.TrimSpace(email), v.user.Email) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return v.user.Clone(), nil
}
