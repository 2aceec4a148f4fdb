package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/user"
)

const (
	// MaxFailedAttempts locks the account; AutoUnlockDuration releases it.
	MaxFailedAttempts  = 3
	AutoUnlockDuration = 5 * time.Minute

	DefaultTokenDuration = 12 * time.Hour
)

// Claims carries the identity and role the middleware authorizes against.
type Claims struct {
	UserID        int64  `json:"user_id"`
	Role          string `json:"role"`
	DelegatedRole string `json:"delegated_role,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates access tokens.
type TokenGenerator interface {
	GenerateToken(u *user.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl == 0 {
		ttl = DefaultTokenDuration
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateToken(u *user.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:        u.UserID,
		Role:          u.Role,
		DelegatedRole: u.DelegatedRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(u.UserID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	UserID        int64  `json:"user_id"`
	Role          string `json:"role"`
	DelegatedRole string `json:"delegated_role,omitempty"`
	ShiftName     string `json:"shift_name,omitempty"`
	Token         string `json:"token"`
}
