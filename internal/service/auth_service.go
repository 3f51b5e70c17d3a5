package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/store-rating-platform/internal/apperr"
	"github.com/iliyamo/store-rating-platform/internal/model"
	"github.com/iliyamo/store-rating-platform/internal/repository"
	"github.com/iliyamo/store-rating-platform/internal/utils"
)

// MsgInvalidCredentials is returned for both an unknown email and a wrong
// password so callers cannot probe which accounts exist.
const MsgInvalidCredentials = "Invalid email or password"

// AuthConfig carries the signing and hashing parameters.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService handles signup, login and password changes.
type AuthService struct {
	cfg   AuthConfig
	users UserRepository
}

func NewAuthService(cfg AuthConfig, users UserRepository) *AuthService {
	return &AuthService{cfg: cfg, users: users}
}

// SignupInput is a validated signup request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup creates a USER account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, err
	}

	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, u, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: tok.Token}, nil
}

// Login verifies credentials and issues a token carrying the user's
// store id when they own one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, u, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &AuthResult{User: u, Token: tok.Token}, nil
}

// UpdatePassword replaces userID's password after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return apperr.BadRequest("Current password is incorrect")
	}
	hash, err := utils.HashPassword(next, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	return nil
}

// EnsureAdmin creates an ADMIN account for email unless one already
// exists. It lets a fresh deployment bootstrap its first administrator.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password, address string) (bool, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil || exists {
		return false, err
	}
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return false, apperr.Internal(err)
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash, Address: address, Role: model.RoleAdmin}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	logrus.WithField("email", u.Email).Info("bootstrap admin created")
	return true, nil
}
