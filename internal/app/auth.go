package app

import (
	"context"
	"errors"
	"strings"

	"barzinhos/internal/domain"
)

type AuthService struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	notify *NotificationService
	cache  domain.Cache
}

func NewAuthService(u domain.UserRepository, h domain.PasswordHasher, t domain.TokenIssuer, n *NotificationService, c domain.Cache) *AuthService {
	return &AuthService{users: u, hasher: h, tokens: t, notify: n, cache: c}
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  domain.User
}

// Register creates a regular user account. Roles other than user are never
// granted here.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	return s.createUser(ctx, username, email, password, domain.RoleUser)
}

// CreateAdmin is used by operator tooling only.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (domain.User, error) {
	return s.createUser(ctx, username, email, password, domain.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (domain.User, error) {
	u, err := s.newUser(username, email, password, role)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.CreateUser(ctx, u)
}

func (s *AuthService) newUser(username, email, password string, role domain.Role) (domain.User, error) {
	return newAccount(s.hasher, username, email, password, role)
}

// newAccount normalizes and validates the credentials and hashes the password.
// A blank username falls back to the local part of the email.
func newAccount(h domain.PasswordHasher, username, email, password string, role domain.Role) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateCredentials(email, password); err != nil {
		return domain.User{}, err
	}
	hash, err := h.Hash(password)
	if err != nil {
		return domain.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	return domain.User{Username: username, Email: email, PasswordHash: hash, Role: role}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, User: u}, nil
}

// Authenticate resolves a bearer token to its principal.
func (s *AuthService) Authenticate(token string) (domain.Principal, error) {
	return s.tokens.Parse(token)
}

func (s *AuthService) Me(ctx context.Context, p domain.Principal) (domain.User, error) {
	u, err := s.users.GetUserByID(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}

// RegisterEstablishment creates the owner account and its pending establishment
// atomically, then sends the welcome message.
func (s *AuthService) RegisterEstablishment(ctx context.Context, email, password string, e domain.Establishment) (domain.User, domain.Establishment, error) {
	if err := e.Validate(); err != nil {
		return domain.User{}, domain.Establishment{}, err
	}
	u, err := s.newUser(e.Name, email, password, domain.RoleEstablishment)
	if err != nil {
		return domain.User{}, domain.Establishment{}, err
	}
	e.IsApproved = false
	u, e, err = s.users.RegisterOwner(ctx, u, e)
	if err != nil {
		return domain.User{}, domain.Establishment{}, err
	}
	invalidateDerived(ctx, s.cache)
	s.notify.notifyBestEffort(ctx, WelcomeNotification(RecipientOf(e)))
	return u, e, nil
}
