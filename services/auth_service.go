package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"mealtracker/models"
	"mealtracker/utils"
)

var (
	ErrMissingCredentials = errors.New("Email and password are required.")
	ErrUserExists         = errors.New("User already exists.")
	ErrInvalidCredentials = errors.New("Invalid credentials.")
)

// AuthService keeps accounts in memory and issues JWTs for them.
type AuthService struct {
	mu     sync.RWMutex
	users  map[string]models.User // keyed by lower-cased email
	secret string
	ttl    time.Duration
}

func NewAuthService(jwtSecret string, ttl time.Duration) *AuthService {
	return &AuthService{users: make(map[string]models.User), secret: jwtSecret, ttl: ttl}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) RegisterUser(email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return ErrUserExists
	}
	s.users[email] = models.User{Email: email, PasswordHash: hashed, CreatedAt: time.Now()}
	return nil
}

// AuthenticateUser checks the password and returns a signed token.
func (s *AuthService) AuthenticateUser(email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	s.mu.RLock()
	user, ok := s.users[email]
	s.mu.RUnlock()
	if !ok || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(s.secret, user.Email, s.ttl)
}

// Subject validates a token and returns the email it was issued to.
func (s *AuthService) Subject(token string) (string, error) {
	return utils.ParseJWT(s.secret, token)
}
