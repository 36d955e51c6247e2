// Package credential verifies a supplied password against the digest held
// in the persistent user store.
package credential

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"EVChatbot_MultimodalProject/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoSuchUser       = errors.New("credential: no such user")
	ErrBadPassword      = errors.New("credential: bad password")
	ErrStoreUnavailable = errors.New("credential: store unavailable")
	// ErrMalformedDigest means the stored digest is in no recognized format.
	// This is a provisioning error, not a user error; it is not retried.
	ErrMalformedDigest = errors.New("credential: malformed password digest")
)

// Store looks up one user record by exact username. A missing user is
// (nil, nil); a non-nil error means the store itself failed.
type Store interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Verifier struct {
	store Store
}

func NewVerifier(store Store) *Verifier {
	return &Verifier{store: store}
}

// Verify checks username/password against the store. On success it returns
// the matched user record. Unknown users always yield ErrNoSuchUser, never
// ErrBadPassword. Passwords and digests are never logged here.
func (v *Verifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, ErrNoSuchUser
	}
	if password == "" {
		return nil, ErrBadPassword
	}

	switch {
	case strings.HasPrefix(user.PasswordHash, "$2"):
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return nil, ErrBadPassword
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
		}
	case isHexDigest(user.PasswordHash):
		// Legacy records store a sha256 hexdigest of the password.
		sum := sha256.Sum256([]byte(password))
		supplied := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(strings.ToLower(user.PasswordHash))) != 1 {
			return nil, ErrBadPassword
		}
	default:
		return nil, ErrMalformedDigest
	}

	return user, nil
}

// HashPassword produces the digest stored for newly provisioned users.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
