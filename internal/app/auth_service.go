// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inventory/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrDuplicateUsername indicates that the username is already registered.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrForbidden indicates that the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrPasswordTooLong indicates a password bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrReservedUsername indicates a local username inside the SSO namespace.
	ErrReservedUsername = errors.New(`username must not start with "sso:"`)
)

const (
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
	// ExternalUsernamePrefix marks accounts provisioned through SSO. Local
	// accounts can never carry it, so a provider identity never resolves to
	// an account that has a password someone chose.
	ExternalUsernamePrefix = "sso:"
)

// PasswordHasher is the one-way credential hash used by AuthService.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles registration, authentication and session resolution.
type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens *TokenCodec
	ttl    time.Duration
	now    func() time.Time

	// dummyHash is compared against when the username is unknown so that both
	// failure paths cost one hash verification.
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens *TokenCodec, ttl time.Duration) (*AuthService, error) {
	if ttl <= 0 {
		return nil, errors.New("session TTL must be > 0")
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash dummy credential: %w", err)
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		ttl:       ttl,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// TTL returns the lifetime of issued sessions.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Register creates a new account with the user role.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := checkLocalAccount(username, password); err != nil {
		return nil, err
	}
	return s.create(ctx, username, password, domain.RoleUser)
}

func checkLocalAccount(username, password string) error {
	if strings.HasPrefix(username, ExternalUsernamePrefix) {
		return ErrReservedUsername
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *AuthService) create(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return nil, ErrDuplicateUsername
	}
	return u, err
}

// Authenticate checks a username/password pair. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || strings.HasPrefix(user.Username, ExternalUsernamePrefix) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SignIn authenticates the user and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// SignInExternal issues a session for a user already authenticated by an
// external identity provider, provisioning the account on first use. The
// account lives under ExternalUsernamePrefix and is never one registered
// locally.
func (s *AuthService) SignInExternal(ctx context.Context, email string) (*Session, error) {
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	username := ExternalUsernamePrefix + email
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The random password is discarded; Authenticate refuses SSO accounts.
		user, err = s.create(ctx, username, uuid.NewString(), domain.RoleUser)
		if errors.Is(err, ErrDuplicateUsername) {
			user, err = s.users.GetByUsername(ctx, username)
		}
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrInvalidCredentials
		}
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	token, err := s.tokens.Issue(user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ResolveIdentity maps a session token to the caller's identity. Invalid or
// expired tokens and tokens of deleted users resolve to Anonymous; only
// storage failures are returned as errors.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Anonymous{}, nil
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Anonymous{}, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Anonymous{}, err
	}
	if user == nil {
		return domain.Anonymous{}, nil
	}
	return domain.IdentityOf(user), nil
}

// EnsureOwner creates the owner account if no owner exists yet. It reports
// whether an account was created.
func (s *AuthService) EnsureOwner(ctx context.Context, username, password string) (bool, error) {
	count, err := s.users.CountByRole(ctx, domain.RoleOwner)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := checkLocalAccount(username, password); err != nil {
		return false, fmt.Errorf("create owner %q: %w", username, err)
	}
	if _, err := s.create(ctx, username, password, domain.RoleOwner); err != nil {
		return false, fmt.Errorf("create owner %q: %w", username, err)
	}
	return true, nil
}
