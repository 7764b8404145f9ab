package services

import (
	"context"
	"errors"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/config"
	"scouthub/internal/pkg/jwt"
	"scouthub/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles authentication business logic
type AuthService struct {
	accountRepo repositories.AccountRepository
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo repositories.AccountRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Account     *models.AccountResponse `json:"account"`
	AccessToken string                  `json:"access_token"`
}

// Login authenticates an account and issues an access token carrying
// its role and home unit code.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	account, err := s.accountRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, account.Password) {
		return nil, ErrInvalidCredentials
	}

	unitCode := ""
	if account.Unit != nil {
		unitCode = account.Unit.Code
	}

	token, err := jwt.GenerateAccessToken(
		account.ID,
		account.Username,
		account.Role,
		unitCode,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessExpiryMin,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:     account.ToResponse(),
		AccessToken: token,
	}, nil
}

// Me returns the authenticated account's profile
func (s *AuthService) Me(ctx context.Context, accountID uint) (*models.AccountResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account.ToResponse(), nil
}
