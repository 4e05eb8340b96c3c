// Package auth
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

type service struct {
	repo domain.UserRepository
	cfg  *config.Config
	log  logger.Logger
}

func NewService(repo domain.UserRepository, cfg *config.Config, log logger.Logger) domain.AuthService {
	return &service{
		repo: repo,
		cfg:  cfg,
		log:  log.With("component", "auth"),
	}
}

// EnsureAdmin creates the operator account or rotates its password when
// the configured one changed.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if user != nil && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
		return nil
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if user == nil {
		s.log.Info("creating admin user", "email", email)
		return s.repo.CreateUser(ctx, &domain.User{Email: email, Password: string(hashedPwd)})
	}

	s.log.Info("admin password rotated", "email", email)
	return s.repo.UpdatePassword(ctx, user.ID, string(hashedPwd))
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken: tokenString,
		User:        user,
	}, nil
}
