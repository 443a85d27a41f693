package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

// AccountStore is the persistence surface the auth service needs for accounts.
type AccountStore interface {
	Create(ctx context.Context, account *repository.Account) error
	GetByEmail(ctx context.Context, email string) (*repository.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ProfileCreator seeds the profile row during sign-up.
type ProfileCreator interface {
	Create(ctx context.Context, profile *models.Profile) error
}

// AuthService handles account sign-up, sign-in and session token validation
type AuthService struct {
	accounts  AccountStore
	profiles  ProfileCreator
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(accounts AccountStore, profiles ProfileCreator, jwtSecret string) *AuthService {
	return &AuthService{
		accounts:  accounts,
		profiles:  profiles,
		jwtSecret: jwtSecret,
	}
}

// SignUp creates an account and its profile record, and returns the new user ID
func (s *AuthService) SignUp(ctx context.Context, in models.SignUpInput) (string, error) {
	exists, err := s.accounts.EmailExists(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", &models.AuthError{Message: "email is already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New().String()
	now := time.Now()

	account := &repository.Account{
		ID:           userID,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	profile := &models.Profile{
		ID:        userID,
		Username:  in.Username,
		Gender:    in.Gender,
		BirthDate: in.BirthDate,
		Age:       in.Age,
		Bio:       in.Bio,
		CreatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	return userID, nil
}

// SignIn verifies credentials and returns a fresh session
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &models.AuthError{Message: "invalid email or password"}
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, &models.AuthError{Message: "invalid email or password"}
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.Session{UserID: account.ID, Token: token}, nil
}

// ValidateToken validates a session token and returns the user ID
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// generateToken issues an HS256 session token for a user
func (s *AuthService) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
