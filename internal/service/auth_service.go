package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// AuthService handles user auth logic
type AuthService struct {
	authRepo repository.Authorization
	tokens   *TokenService
}

func NewAuthService(repo repository.Authorization, tokens *TokenService) *AuthService {
	return &AuthService{authRepo: repo, tokens: tokens}
}

// NormalizeEmail trims and lower-cases an address. Stored emails are always
// normalized, so lookups must be too.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp validates input, hashes the password, stores the user and returns
// it together with a fresh token.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	switch {
	case name == "":
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	case validate.Var(email, "required,email") != nil:
		return nil, "", fmt.Errorf("%w: a valid email is required", ErrValidation)
	}

	existing, err := s.authRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.authRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login validates credentials and returns the user and a JWT.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.authRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ResolveUser verifies the token and loads its user. Any failure, including
// a user that no longer exists, wraps ErrTokenInvalid.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	u, err := s.authRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %q not found", ErrTokenInvalid, userID)
	}
	return u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password is empty", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
