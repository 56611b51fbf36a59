package reset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lms-platform/authcore/internal/security"
	"lms-platform/authcore/internal/user/domain"
)

type memUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newMemUserStore(users ...*domain.User) *memUserStore {
	s := &memUserStore{byEmail: make(map[string]*domain.User)}
	for _, u := range users {
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byEmail[email], nil
}

func (s *memUserStore) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.PasswordReset != nil && u.PasswordReset.Token == token {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) Update(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[u.Email] = u
	return nil
}

func activeUser(id, email string) *domain.User {
	return &domain.User{
		ID:       id,
		Username: id,
		Email:    email,
		Status:   domain.UserStatusActive,
	}
}

func TestRequest_KnownEmailStoresToken(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	store := newMemUserStore(u)
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	token, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if u.PasswordReset == nil || u.PasswordReset.Token != token {
		t.Fatal("token not stored on user")
	}
	if u.PasswordReset.ExpiresAt.IsZero() {
		t.Fatal("expiry not set")
	}
}

func TestRequest_UnknownEmailSameShape(t *testing.T) {
	store := newMemUserStore(activeUser("u1", "a@b.com"))
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	token, err := svc.Request(context.Background(), "nouser@nowhere.com")
	if err != nil {
		t.Fatalf("Request for unknown email must not error, got %v", err)
	}
	if token == "" {
		t.Fatal("unknown email must still yield a syntactically valid token")
	}
	// The token must not be usable.
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token for unknown email validated: %v", err)
	}
}

func TestRequest_NewTokenInvalidatesPrevious(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	store := newMemUserStore(u)
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	first, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	second, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if first == second {
		t.Fatal("tokens must differ")
	}
	if _, err := svc.Validate(context.Background(), first); !errors.Is(err, ErrInvalidToken) {
		t.Error("previous token should be invalid after reissue")
	}
	if _, err := svc.Validate(context.Background(), second); err != nil {
		t.Errorf("current token should validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	store := newMemUserStore(u)
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: want ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unknown token: want ErrInvalidToken, got %v", err)
	}

	token, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	// Missing expiry is invalid even when the token matches.
	u.PasswordReset.ExpiresAt = time.Time{}
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("missing expiry: want ErrInvalidToken, got %v", err)
	}
}

func TestComplete_ExpiredToken(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	store := newMemUserStore(u)
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	issuedAt := time.Now().UTC()
	svc.nowF = func() time.Time { return issuedAt }
	token, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	svc.nowF = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	if err := svc.Complete(context.Background(), token, "Str0ng!Pass"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: want ErrInvalidToken, got %v", err)
	}
}

func TestComplete_SuccessAndSingleUse(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	u.RequirePasswordChange = true
	store := newMemUserStore(u)
	h := security.NewHasher(4)
	svc := NewService(store, h, time.Hour, nil)

	token, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := svc.Complete(context.Background(), token, "Str0ng!Pass"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !h.Verify("Str0ng!Pass", u.HashedPassword) {
		t.Error("new password not written")
	}
	if u.PasswordReset != nil {
		t.Error("reset state not cleared")
	}
	if u.RequirePasswordChange {
		t.Error("require-password-change flag not cleared")
	}
	// Single-use: the same token fails the second time.
	if err := svc.Complete(context.Background(), token, "An0ther!Pass"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("second Complete: want ErrInvalidToken, got %v", err)
	}
}

func TestComplete_WeakPasswordKeepsToken(t *testing.T) {
	u := activeUser("u1", "a@b.com")
	store := newMemUserStore(u)
	svc := NewService(store, security.NewHasher(4), time.Hour, nil)

	token, err := svc.Request(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := svc.Complete(context.Background(), token, "weak"); !errors.Is(err, security.ErrWeakPassword) {
		t.Fatalf("weak password: want ErrWeakPassword, got %v", err)
	}
	// The user can retry with a stronger password on the same link.
	if err := svc.Complete(context.Background(), token, "Str0ng!Pass"); err != nil {
		t.Errorf("retry after weak password: %v", err)
	}
}
