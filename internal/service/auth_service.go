package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abengl/fleet-management-api/internal/model"
	"github.com/abengl/fleet-management-api/internal/repository"
	"github.com/abengl/fleet-management-api/internal/utils"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// RoleStore resolves seeded roles.
type RoleStore interface {
	GetByKind(ctx context.Context, kind model.RoleKind) (model.Role, error)
}

// TokenSigner issues access tokens.
type TokenSigner interface {
	Issue(userID uint64, email string, authorities []string) (utils.AccessToken, error)
}

// UserSummary is the minimal user view returned with a token.
type UserSummary struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// AuthResult is returned by Login and CreateUser.
type AuthResult struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        UserSummary `json:"user"`
}

// Principal is a user's credentials and derived authorities.
type Principal struct {
	UserID                uint64
	Email                 string
	PasswordHash          string
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	Authorities           []string
}

// AuthService verifies credentials, creates users and issues tokens.
type AuthService struct {
	users      UserStore
	roles      RoleStore
	tokens     TokenSigner
	bcryptCost int
	timeout    time.Duration
	log        logrus.FieldLogger
}

func NewAuthService(users UserStore, roles RoleStore, tokens TokenSigner, bcryptCost int, timeout time.Duration, log logrus.FieldLogger) *AuthService {
	if users == nil || roles == nil || tokens == nil {
		panic("nil dependency passed to NewAuthService")
	}
	return &AuthService{users: users, roles: roles, tokens: tokens, bcryptCost: bcryptCost, timeout: timeout, log: log}
}

// LoadPrincipal returns the credentials of the user with the email and a
// single authority derived from the user's role.
func (s *AuthService) LoadPrincipal(ctx context.Context, email string) (Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Principal{}, fmt.Errorf("%w: user not found with email: %s", ErrNotFound, email)
		}
		return Principal{}, outboundErr(err)
	}
	return Principal{
		UserID:                u.ID,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		Enabled:               u.Enabled,
		AccountNonExpired:     u.AccountNonExpired,
		AccountNonLocked:      u.AccountNonLocked,
		CredentialsNonExpired: u.CredentialsNonExpired,
		Authorities:           []string{u.Role.Kind.Authority()},
	}, nil
}

// Login checks the password against the stored hash and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidParameter)
	}
	p, err := s.LoadPrincipal(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if !utils.VerifyPassword(p.PasswordHash, password) {
		s.log.WithField("user_id", p.UserID).Info("login rejected: incorrect password")
		return AuthResult{}, fmt.Errorf("%w: incorrect password", ErrInvalidCredentials)
	}
	return s.issue(p.UserID, p.Email, p.Authorities)
}

// CreateUser registers a user with the named role and issues a token for
// it. Unknown roles are rejected before anything is written.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, roleName string) (AuthResult, error) {
	kind, ok := model.ParseRoleKind(roleName)
	if !ok {
		return AuthResult{}, fmt.Errorf("%w: the role %q does not exist", ErrInvalidRole, roleName)
	}
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidParameter)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	role, err := s.roles.GetByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return AuthResult{}, fmt.Errorf("%w: the role %q does not exist", ErrInvalidRole, roleName)
		}
		return AuthResult{}, outboundErr(err)
	}

	switch _, err := s.users.GetByEmail(ctx, email); {
	case err == nil:
		return AuthResult{}, fmt.Errorf("%w: %s is already registered", ErrDuplicateEmail, email)
	case !errors.Is(err, repository.ErrUserNotFound):
		return AuthResult{}, outboundErr(err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Name:                  name,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  role,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, fmt.Errorf("%w: %s is already registered", ErrDuplicateEmail, email)
		}
		return AuthResult{}, outboundErr(err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": role.Kind}).Info("user created")

	return s.issue(u.ID, u.Email, []string{role.Kind.Authority()})
}

func (s *AuthService) issue(userID uint64, email string, authorities []string) (AuthResult, error) {
	tok, err := s.tokens.Issue(userID, email, authorities)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{
		AccessToken: tok.Token,
		ExpiresAt:   tok.Exp,
		User:        UserSummary{ID: userID, Email: email},
	}, nil
}
