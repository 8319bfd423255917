package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jannathh/Scentify-Project/internal/auth"
	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = apperrors.Unauthorized("sign in to continue")

// NewCard is a card as entered; only its masked form is stored.
type NewCard struct {
	Type       string
	CardNumber string
	CardName   string
	ExpiryDate string
	IsDefault  bool
}

// SessionStore is one client's auth session: anonymous or a signed-in user.
type SessionStore struct {
	slotStore[domain.Session, domain.Session]
	user       *domain.User
	verifier   auth.CredentialVerifier
	registered observers[*domain.User]
}

func NewSessionStore(slot *repository.Slot[domain.Session], verifier auth.CredentialVerifier, logger *slog.Logger) *SessionStore {
	s := &SessionStore{verifier: verifier}
	s.init(slot, logger)
	return s
}

func (s *SessionStore) Init(ctx context.Context) repository.LoadStatus {
	return s.hydrate(ctx, domain.Session{}, func(sess domain.Session) {
		if sess.User != nil && sess.User.Email != "" {
			s.user = sess.User
		}
	})
}

// Login signs in when the verifier accepts the credentials. A mismatch leaves
// the session untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) bool {
	s.Init(ctx)

	u, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.ErrorContext(ctx, "credential verification failed", slog.String("error", err.Error()))
		}
		logins.WithLabelValues("rejected").Inc()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.commit(ctx)
	logins.WithLabelValues("accepted").Inc()
	s.logger.InfoContext(ctx, "user signed in", slog.String("user_id", u.ID))
	return true
}

// Register opens a session for a new user. There is no account store to
// check against, so it always succeeds; the password is not kept.
func (s *SessionStore) Register(ctx context.Context, fields domain.ProfileFields, _ string) bool {
	s.Init(ctx)
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(fields.Email),
		FirstName: strings.TrimSpace(fields.FirstName),
		LastName:  strings.TrimSpace(fields.LastName),
	}

	s.mu.Lock()
	s.user = u
	s.commit(ctx)
	s.mu.Unlock()

	s.registered.notify(u.Clone())
	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", u.ID))
	return true
}

// OnRegister registers fn to run after each successful registration.
func (s *SessionStore) OnRegister(fn func(*domain.User)) func() {
	return s.registered.subscribe(fn)
}

func (s *SessionStore) Logout(ctx context.Context) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.commit(ctx)
}

// UpdateUserProfile merges the set fields into the signed-in user. It returns
// false, changing nothing, when the session is anonymous.
func (s *SessionStore) UpdateUserProfile(ctx context.Context, p domain.ProfileUpdate) bool {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false
	}
	u := s.user.Clone()
	u.Apply(p)
	s.user = u
	s.commit(ctx)
	return true
}

// AddPaymentMethod saves a masked card on the user.
func (s *SessionStore) AddPaymentMethod(ctx context.Context, card NewCard) (domain.PaymentMethod, error) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return domain.PaymentMethod{}, ErrNotAuthenticated
	}
	kind := card.Type
	if kind != domain.CardDebit {
		kind = domain.CardCredit
	}
	m := domain.PaymentMethod{
		ID:         "card-" + uuid.NewString(),
		Type:       kind,
		Brand:      domain.CardBrand(card.CardNumber),
		CardNumber: domain.MaskCardNumber(card.CardNumber),
		CardName:   strings.TrimSpace(card.CardName),
		ExpiryDate: card.ExpiryDate,
		IsDefault:  card.IsDefault,
	}

	u := s.user.Clone()
	u.PaymentMethods = domain.AddPaymentMethod(u.PaymentMethods, m)
	s.user = u
	s.commit(ctx)
	return u.PaymentMethods[len(u.PaymentMethods)-1], nil
}

// RemovePaymentMethod deletes a saved card.
func (s *SessionStore) RemovePaymentMethod(ctx context.Context, id string) error {
	return s.editPaymentMethods(ctx, id, domain.RemovePaymentMethod)
}

// SetDefaultPaymentMethod makes id the only default card.
func (s *SessionStore) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	return s.editPaymentMethods(ctx, id, domain.SetDefaultPaymentMethod)
}

func (s *SessionStore) editPaymentMethods(ctx context.Context, id string, edit func([]domain.PaymentMethod, string) ([]domain.PaymentMethod, bool)) error {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrNotAuthenticated
	}
	methods, ok := edit(s.user.PaymentMethods, id)
	if !ok {
		return apperrors.NotFound("payment method", id)
	}
	u := s.user.Clone()
	u.PaymentMethods = methods
	s.user = u
	s.commit(ctx)
	return nil
}

// User returns a copy of the signed-in user, or nil.
func (s *SessionStore) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *SessionStore) commit(ctx context.Context) {
	sess := domain.Session{User: s.user.Clone()}
	s.persist(ctx, sess)
	s.observers.notify(sess)
}
