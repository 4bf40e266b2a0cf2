// file: service/password.go

package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"med-transcribe-api/logger"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Hashing at this cost takes a noticeable fraction of a second.
	BcryptCost = 12

	pbkdf2Iterations = 100000
	pbkdf2SaltLen    = 32
	pbkdf2KeyLen     = 32
	pbkdf2Prefix     = "pbkdf2:"
)

// WeakPasswordError reports why a password failed the complexity policy.
// The reason is safe to return to the caller.
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return e.Reason
}

// commonPasswords is a small deny-list of passwords that satisfy the
// character rules but are still trivially guessable.
var commonPasswords = map[string]bool{
	"password123!": true,
	"p@ssword1234": true,
	"qwerty123456": true,
	"welcome12345": true,
	"admin123456!": true,
	"letmein12345": true,
	"password123":  true,
	"p@ssword1":    true,
}

// ValidatePassword enforces the password complexity policy: at least 12
// characters with an upper, a lower, a digit and a special character, and
// not on the common-password deny-list.
func ValidatePassword(password string) error {
	if password == "" {
		return &WeakPasswordError{Reason: "Password cannot be empty"}
	}
	if len(password) < 12 {
		return &WeakPasswordError{Reason: "Password must be at least 12 characters long"}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "digit")
	}
	if !hasSpecial {
		missing = append(missing, "special character")
	}
	if len(missing) > 0 {
		return &WeakPasswordError{Reason: "Password must contain at least one " + strings.Join(missing, ", ")}
	}

	if commonPasswords[strings.ToLower(password)] {
		return &WeakPasswordError{Reason: "Password is too common and easily guessable"}
	}

	return nil
}

// CredentialHasher derives a one-way digest from a password. The
// implementation is selected once at startup from configuration; stored
// digests are self-describing, so verification works regardless of which
// hasher is currently active.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Name() string
}

// NewCredentialHasher returns the hasher named in configuration.
func NewCredentialHasher(name string) (CredentialHasher, error) {
	switch name {
	case "", "bcrypt":
		return &BcryptHasher{Cost: BcryptCost}, nil
	case "pbkdf2":
		return &PBKDF2Hasher{Iterations: pbkdf2Iterations}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher: %q", name)
	}
}

// BcryptHasher is the primary hashing algorithm.
type BcryptHasher struct {
	Cost int
}

func (h *BcryptHasher) Name() string { return "bcrypt" }

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// PBKDF2Hasher is the fallback algorithm, used where a bcrypt
// implementation cannot be deployed. Digests are stored as
// "pbkdf2:<salt-hex>$<key-hex>" so verification can recognize them.
type PBKDF2Hasher struct {
	Iterations int
}

func (h *PBKDF2Hasher) Name() string { return "pbkdf2" }

func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		logger.Log.WithError(err).Error("Failed to generate salt")
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, h.Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s%s$%s", pbkdf2Prefix, hex.EncodeToString(salt), hex.EncodeToString(key)), nil
}

// PasswordService validates and hashes passwords with the configured
// hasher, and verifies passwords against stored digests of either format.
type PasswordService struct {
	hasher CredentialHasher
}

func NewPasswordService(hasher CredentialHasher) *PasswordService {
	return &PasswordService{hasher: hasher}
}

// SetPassword validates the password against the complexity policy and
// returns the encoded digest. Persisting the digest (and clearing any
// pending reset token) is the caller's responsibility.
func (s *PasswordService) SetPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	return s.hasher.Hash(password)
}

// VerifyPassword checks a password against a stored digest, dispatching on
// the algorithm the digest was created with. A mismatch returns false; a
// malformed stored digest is logged and also returns false.
func (s *PasswordService) VerifyPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}

	if strings.HasPrefix(stored, pbkdf2Prefix) {
		return verifyPBKDF2(password, stored)
	}

	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	if err != nil && err != bcrypt.ErrMismatchedHashAndPassword {
		logger.Log.WithError(err).Error("Malformed bcrypt digest")
	}
	return err == nil
}

func verifyPBKDF2(password, stored string) bool {
	parts := strings.SplitN(strings.TrimPrefix(stored, pbkdf2Prefix), "$", 2)
	if len(parts) != 2 {
		logger.Log.Error("Invalid PBKDF2 digest format")
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		logger.Log.WithError(err).Error("Invalid PBKDF2 salt encoding")
		return false
	}
	storedKey, err := hex.DecodeString(parts[1])
	if err != nil {
		logger.Log.WithError(err).Error("Invalid PBKDF2 key encoding")
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(storedKey), sha256.New)
	return subtle.ConstantTimeCompare(key, storedKey) == 1
}
