package services

import (
	"strings"
	"time"

	"dcpstore/internal/apperror"
	"dcpstore/internal/domain"
	"dcpstore/internal/repos"
	"dcpstore/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

// SessionTTL is the fixed lifetime of a session.
const SessionTTL = 24 * time.Hour

// badCredsMsg is deliberately identical for unknown users and wrong
// passwords so login failures cannot enumerate accounts.
const badCredsMsg = "invalid username or password"

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

// Register creates a credential and binds sid to the new identity
// (registration is an auto-login).
func (s *AuthService) Register(sid, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperror.Validation("all fields are required")
	}
	if _, ok := validate.Username(username); !ok {
		return nil, apperror.Validation("invalid username")
	}
	if _, ok := validate.Email(email); !ok {
		return nil, apperror.Validation("invalid email address")
	}
	if !validate.Password(password) {
		return nil, apperror.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Infra("registration failed", err)
	}
	u, err := s.Users.Create(username, email, string(hash))
	if err != nil {
		if err == repos.ErrDuplicate {
			return nil, apperror.Conflict("a user with this username or email already exists")
		}
		return nil, apperror.Infra("registration failed", err)
	}
	if err := s.Users.BindSession(sid, u.ID, SessionTTL); err != nil {
		return nil, apperror.Infra("registration failed", err)
	}
	return u, nil
}

// Login matches the identifier against username or email and binds sid on
// success.
func (s *AuthService) Login(sid, ident, password string) (*domain.User, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}
	u, err := s.Users.ByUsernameOrEmail(ident)
	if err != nil {
		return nil, apperror.Auth(badCredsMsg)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, apperror.Auth(badCredsMsg)
	}
	if err := s.Users.BindSession(sid, u.ID, SessionTTL); err != nil {
		return nil, apperror.Infra("login failed", err)
	}
	return u, nil
}

// Logout invalidates sid unconditionally. Logging out twice, or without a
// session, is not an error.
func (s *AuthService) Logout(sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.Users.UnbindSession(sid); err != nil {
		return apperror.Infra("logout failed", err)
	}
	return nil
}

// CurrentSession reports the identity bound to sid. Absence of a session is
// a normal state; this never fails.
func (s *AuthService) CurrentSession(sid string) domain.SessionState {
	if sid == "" {
		return domain.SessionState{LoggedIn: false}
	}
	u, err := s.Users.SessionUser(sid)
	if err != nil || u == nil {
		return domain.SessionState{LoggedIn: false}
	}
	return domain.SessionState{LoggedIn: true, User: u}
}
