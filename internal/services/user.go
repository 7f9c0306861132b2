package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/inventorypro/inventory-platform/internal/config"
	appErrors "github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// RateLimiter throttles login attempts per account.
type RateLimiter interface {
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

type UserService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

type userService struct {
	security config.Security
	limiter  RateLimiter
}

func NewUserService(security config.Security, limiter RateLimiter) UserService {
	return &userService{security: security, limiter: limiter}
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	if s.limiter != nil {
		allowed, _, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			slog.Warn("Login rate limit check failed", slog.String("error", err.Error()))
		} else if !allowed {
			return nil, appErrors.TooManyRequestsError(
				fmt.Sprintf("Too many login attempts; retry in %d seconds", retryAfter))
		}
	}

	// Single-operator deployment: the only account is the configured admin.
	if subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.security.AdminEmail)) != 1 {
		return nil, appErrors.UnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.security.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.UnauthorizedError("Invalid email or password")
	}

	now := time.Now()

	claims := &models.Claims{
		Email: req.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.security.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.security.JWTKey))
	if err != nil {
		return nil, appErrors.InternalError("Failed to issue token").WithError(err)
	}

	slog.Info("Admin login succeeded", slog.String("email", req.Email))

	return &models.LoginResponse{
		Token:     signed,
		ExpiresIn: int64(s.security.TokenTTL.Seconds()),
	}, nil
}
