package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/primer-backend-go/config"
)

// ErrTokenInvalid is returned by Verify for every rejection — bad signature,
// malformed structure, or expiry. Callers deliberately cannot tell these
// apart; they all surface as the same 401 upstream.
var ErrTokenInvalid = errors.New("token inválido o expirado")

// Claims is the payload of issued tokens: the user's identity plus the
// registered expiry claims.
type Claims struct {
	ID      int    `json:"id"`
	Usuario string `json:"usuario"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService from the auth configuration. A
// missing secret is a configuration error; callers treat it as fatal at
// startup.
func NewTokenService(cfg *config.AuthConfig) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}
	ttl := cfg.TokenDuration
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(cfg.JWTSecret), ttl: ttl}, nil
}

// Issue signs a token carrying the user's id and handle, expiring ttl from now.
func (t *TokenService) Issue(id int, usuario string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:      id,
		Usuario: usuario,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims. Every
// failure mode collapses into ErrTokenInvalid.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.ID == 0 || claims.Usuario == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
