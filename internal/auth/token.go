/* JWT issuing and validation for login sessions. */

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey []byte

var ErrNoSigningKey = errors.New("auth: signing key not configured")

// SetSigningKey installs the HMAC key used for all tokens. Called once at
// startup before any token is generated or validated.
func SetSigningKey(key []byte) {
	jwtKey = key
}

// Claims carried in the JWT payload: the account and its active session.
type Claims struct {
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateToken mints a signed token bound to one login session.
func GenerateToken(username, sessionID string, ttl time.Duration) (string, error) {
	if len(jwtKey) == 0 {
		return "", ErrNoSigningKey
	}
	now := time.Now()
	claims := &Claims{
		Username:  username,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "EVChatbot-api",
			Subject:   "user_auth_token",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken parses and verifies a token string.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtKey) == 0 {
		return nil, ErrNoSigningKey
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
