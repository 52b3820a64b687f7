package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atanasster/pad-champions/internal/domain"
)

var (
	ErrMissingSubject = errors.New("user id not found in token")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// TokenManager verifies and issues HMAC-signed identity tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Parse validates tokenString and returns the caller it identifies. The
// subject is read from user_id, sub or uid, in that order. A missing role
// claim yields an empty Role.
func (m *TokenManager) Parse(tokenString string) (domain.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, ErrInvalidToken
	}

	var actor domain.Actor
	for _, key := range []string{"user_id", "sub", "uid"} {
		if v, ok := claims[key].(string); ok && v != "" {
			actor.ID = v
			break
		}
	}
	if actor.ID == "" {
		return domain.Actor{}, ErrMissingSubject
	}

	if role, ok := claims["role"].(string); ok {
		actor.Role = domain.Role(role)
	}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		actor.Email = email
	}
	return actor, nil
}

// Issue signs a token for actor carrying its current role claim
func (m *TokenManager) Issue(actor domain.Actor) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"user_id": actor.ID,
		"sub":     actor.ID,
		"role":    string(actor.Role),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}
	if actor.Name != "" {
		claims["name"] = actor.Name
	}
	if actor.Email != "" {
		claims["email"] = actor.Email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
