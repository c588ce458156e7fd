package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
)

// SeedUser is an account created on first start
type SeedUser struct {
	Username string
	Password string
	Role     models.Role
}

// AuthService interface defines account and login logic
type AuthService interface {
	Login(ctx context.Context, form *models.LoginForm) (*models.User, error)
	CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error)
	SeedUsers(ctx context.Context, seeds []SeedUser) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// authService implements AuthService interface
type authService struct {
	users  repositories.UserRepository
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{users: users, logger: logger}
}

// Login checks a username and password. Unknown users and wrong passwords
// yield the same error.
func (s *authService) Login(ctx context.Context, form *models.LoginForm) (*models.User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, models.ValidationErrors{{Field: "username", Message: strings.Join(errs, ", ")}}
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(form.Username))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// CreateUser validates the form, hashes the password and stores the account
func (s *authService) CreateUser(ctx context.Context, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		ve := make(models.ValidationErrors, len(errs))
		for i, msg := range errs {
			ve[i] = models.ValidationError{Message: msg}
		}
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(form.Username),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: string(hash),
		Role:         models.NormalizeRole(form.Role),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SeedUsers creates the given accounts when no user exists yet. Seeds
// without a password are skipped.
func (s *authService) SeedUsers(ctx context.Context, seeds []SeedUser) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range seeds {
		if seed.Password == "" {
			s.logger.Warn("no password configured for seed user, skipping", "username", seed.Username)
			continue
		}

		_, err := s.CreateUser(ctx, &models.UserForm{
			Username: seed.Username,
			Password: seed.Password,
			Role:     string(seed.Role),
		})
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed.Username, err)
		}
		s.logger.Info("seeded user", "username", seed.Username, "role", seed.Role)
	}

	return nil
}

// GetUserByID retrieves the user behind a session. A user removed since
// login is treated as not authenticated.
func (s *authService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// GetUserByEmail maps an identity provider email onto a local account
func (s *authService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}
