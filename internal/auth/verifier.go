package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a submitted admin credential.
type Verifier interface {
	Verify(secret string) bool
}

// BcryptVerifier compares against a stored bcrypt hash.
type BcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier accepts an existing bcrypt hash.
func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

// NewPlaintextVerifier hashes a plaintext password once at startup.
func NewPlaintextVerifier(password string) (*BcryptVerifier, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &BcryptVerifier{hash: hash}, nil
}

// NewVerifier prefers the hash and falls back to the plaintext password.
func NewVerifier(hash, password string) (*BcryptVerifier, error) {
	if hash != "" {
		return NewBcryptVerifier(hash)
	}
	return NewPlaintextVerifier(password)
}

func (v *BcryptVerifier) Verify(secret string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
}
