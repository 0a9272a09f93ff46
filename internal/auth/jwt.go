package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/parcattraction/internal/models"
)

// TokenStatus is the outcome of verifying a request's token.
type TokenStatus int

const (
	// TokenMissing means no Authorization header was sent.
	TokenMissing TokenStatus = iota
	// TokenMalformed covers a wrong scheme, a bad signature or unparsable claims.
	TokenMalformed
	// TokenExpired means the token was well formed but is past its expiry.
	TokenExpired
	// TokenValid means the token is signed by us and unexpired.
	TokenValid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenMissing:
		return "missing"
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case TokenValid:
		return "valid"
	default:
		return "unknown"
	}
}

// Verification is the typed result of Verify. Claims is only set when
// Status is TokenValid.
type Verification struct {
	Status TokenStatus
	Claims *Claims
}

// Valid reports whether the token was accepted.
func (v Verification) Valid() bool {
	return v.Status == TokenValid
}

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for an admin session.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
// tokenDuration is how long tokens remain valid (e.g., 24 hours).
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate creates a new JWT token for the given user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a raw JWT token, returning its claims.
func (m *JWTManager) Validate(tokenString string) (Verification, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Verification{Status: TokenExpired}, err
		}
		return Verification{Status: TokenMalformed}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Verification{Status: TokenMalformed}, errors.New("invalid token claims")
	}

	return Verification{Status: TokenValid, Claims: claims}, nil
}

// Verify checks the value of an Authorization header. It never builds a
// response; mapping the status to HTTP is left to the caller.
func (m *JWTManager) Verify(authHeader string) Verification {
	if strings.TrimSpace(authHeader) == "" {
		return Verification{Status: TokenMissing}
	}

	// Parse Bearer token
	scheme, tokenString, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
		return Verification{Status: TokenMalformed}
	}

	v, _ := m.Validate(strings.TrimSpace(tokenString))
	return v
}
