package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
)

const tokenTTL = 24 * time.Hour

// AuthService verifies credentials and issues access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users  repository.UserRepository
	secret []byte
	logger zerolog.Logger

	validator *validator.Validate
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, secret string, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		secret:    []byte(secret),
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNoDocument) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  user.ID.Hex(),
		"name": user.Name,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("email", email).Str("role", string(user.Role)).Msg("user logged in")

	return dto.LoginResponse{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}, nil
}
