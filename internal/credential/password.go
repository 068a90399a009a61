package credential

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/todolist/internal/model"
)

// Scheme turns a plaintext password into its stored form and checks
// login attempts against a stored value.
type Scheme interface {
	Name() string
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// NewScheme returns the scheme selected by auth configuration.
func NewScheme(cfg model.AuthConfig) (Scheme, error) {
	switch cfg.PasswordScheme {
	case "", model.PasswordSchemePlain:
		return Plain{}, nil
	case model.PasswordSchemeBcrypt:
		cost := cfg.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
		}
		return Bcrypt{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", cfg.PasswordScheme)
	}
}

// Plain stores passwords as given and compares them for equality.
// It exists for compatibility with databases written before hashing
// was available; prefer Bcrypt for new installations.
type Plain struct{}

// Name returns "plain".
func (Plain) Name() string { return model.PasswordSchemePlain }

// Hash returns password as given.
func (Plain) Hash(password string) (string, error) {
	return password, nil
}

// Verify compares in constant time.
func (Plain) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

// Name returns "bcrypt".
func (Bcrypt) Name() string { return model.PasswordSchemeBcrypt }

// Hash returns the bcrypt hash of password.
func (b Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks password against a bcrypt hash. Stored values that are
// not hashes are compared as plaintext.
func (Bcrypt) Verify(stored, password string) bool {
	if !IsBcryptHash(stored) {
		// Rows written under the plain scheme before a switch to bcrypt.
		return Plain{}.Verify(stored, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// IsBcryptHash reports whether s parses as a bcrypt hash.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
