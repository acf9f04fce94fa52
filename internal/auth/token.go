package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner signs and verifies the cookie that carries a session id.
// The cookie alone grants nothing: the session id must still exist
// server-side.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) (*TokenSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return &TokenSigner{secret: []byte(secret)}, nil
}

func (s *TokenSigner) Sign(sessionID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the session id embedded in a valid, unexpired token.
func (s *TokenSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("invalid session id in token claims")
	}

	return sessionID, nil
}
