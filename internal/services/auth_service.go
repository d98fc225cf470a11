package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/openschool/schoolhub/backend/internal/database"
	"github.com/openschool/schoolhub/backend/internal/models"
)

const defaultTokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	Username        string      `json:"username"`
	Role            models.Role `json:"role"`
	AdmissionNumber string      `json:"admission_number,omitempty"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies HS256 tokens and throttles login
// attempts per client IP.
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewAuthService reads JWT_SECRET (required in production; a generated
// warning default keeps dev setups running) and TOKEN_TTL_HOURS.
func NewAuthService() *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "schoolhub-dev-secret"
		log.Println("Warning: JWT_SECRET not set, using insecure development secret")
	}

	ttl := defaultTokenTTL
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return &AuthService{
		secret:   []byte(secret),
		tokenTTL: ttl,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Login verifies credentials against the users table and returns a signed
// token. Attempts are rate limited per client IP before the database is hit.
func (a *AuthService) Login(clientIP, username, password string) (*models.LoginResponse, error) {
	if !a.allow(clientIP) {
		return nil, ErrTooManyAttempts
	}

	var user models.User
	if err := database.GetDB().First(&user, "username = ?", username).Error; err != nil {
		// Burn a bcrypt comparison anyway so missing and wrong-password
		// responses take the same time
		bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0a7dA3nJ7F3P6kS9uVdO1hQe9aW"), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(a.tokenTTL)
	token, err := a.IssueToken(&user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		Token:     token,
		Role:      user.Role,
		Username:  user.Username,
		ExpiresAt: expiresAt,
	}, nil
}

// IssueToken signs a token for the user expiring at the given time.
func (a *AuthService) IssueToken(user *models.User, expiresAt time.Time) (string, error) {
	claims := Claims{
		Username:        user.Username,
		Role:            user.Role,
		AdmissionNumber: user.AdmissionNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// VerifyToken parses and validates a bearer token.
func (a *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// allow applies a 5-per-minute, burst-5 limiter per client IP.
func (a *AuthService) allow(clientIP string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	lim, ok := a.limiters[clientIP]
	if !ok {
		lim = rate.NewLimiter(rate.Every(12*time.Second), 5)
		a.limiters[clientIP] = lim
	}
	return lim.Allow()
}
