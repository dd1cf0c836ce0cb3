package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vehicle-insurance-service/internal/models"
	"vehicle-insurance-service/internal/repository"
)

const tokenValidity = 24 * time.Hour

type AuthService struct {
	accountRepo *repository.AccountRepository
	jwtSecret   []byte
}

func NewAuthService(accountRepo *repository.AccountRepository, jwtSecret string) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.accountRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	if user.IsLocked {
		return nil, fmt.Errorf("account is locked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)

	return &models.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// RegisterCustomer creates a user account and its customer profile.
func (s *AuthService) RegisterCustomer(ctx context.Context, username, password, customerName string, email, address, phone *string) (*models.Customer, error) {
	if username == "" || password == "" || customerName == "" {
		return nil, fmt.Errorf("username, password and customer name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Role:         "CUSTOMER",
		CreatedAt:    now,
	}

	if err := s.accountRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:           uuid.New(),
		UserID:       &user.ID,
		CustomerName: customerName,
		Address:      address,
		Phone:        phone,
		IsActive:     true,
		CreatedAt:    now,
	}

	if err := s.accountRepo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	slog.Info("Customer registered", "customer_id", customer.ID, "username", username)

	return customer, nil
}
