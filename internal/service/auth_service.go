package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"controlling_motor/internal/repository"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrEmptySigningKey = errors.New("signing key is empty")
)

// AuthConfig holds token settings read from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AuthService handles operator credentials and bearer tokens.
type AuthService struct {
	authRepo repository.Authorization
	key      []byte
	ttl      time.Duration
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{authRepo: repo, key: []byte(cfg.SigningKey), ttl: ttl}
}

// SignUp hashes password and creates a new user
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.authRepo.Create(ctx, username, hash)
}

// EnsureUser creates the account when it does not exist yet.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if u != nil {
		return false, nil
	}
	if _, err := s.SignUp(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	id, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.issueToken(id)
}

// VerifyCredentials checks a username/password pair and returns the user id.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (int, error) {
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, ErrUserNotFound
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return 0, ErrInvalidPassword
	}
	return u.ID, nil
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	if len(s.key) == 0 {
		return 0, ErrEmptySigningKey
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// issueToken signs a JWT for a user.
func (s *AuthService) issueToken(userID int) (string, error) {
	if len(s.key) == 0 {
		return "", ErrEmptySigningKey
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.key)
}
