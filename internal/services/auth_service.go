package services

import (
	"fmt"
	"log"
	"time"

	"atlas/internal/models"
	"atlas/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService resolves presented credentials to user identities. Two
// credential forms are supported: a static per-user API key combined with the
// tenant domain, and a signed session token issued by Login.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a session token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Session valid for 24 hours
	}
}

// Login authenticates a user by username and password and returns a session
// token if successful.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// It's good practice not to reveal if the username exists or not
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// AuthenticateAPIKey resolves a (user_domain, api_key) pair to a user. The
// domain is the username the key was issued for; a key presented under the
// wrong domain does not authenticate.
func (s *AuthService) AuthenticateAPIKey(userDomain, apiKey string) (*models.User, error) {
	if userDomain == "" || apiKey == "" {
		return nil, fmt.Errorf("missing credentials")
	}

	user, err := s.userRepo.GetByUsername(userDomain)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if user.APIKey != apiKey {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// AuthenticateToken validates a session token and loads the user it belongs to.
func (s *AuthService) AuthenticateToken(tokenString string) (*models.User, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// validateToken parses and validates a session token, returning the claims if valid.
func (s *AuthService) validateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
