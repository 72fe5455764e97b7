package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPlaintextVerifier(t *testing.T) {
	v, err := NewPlaintextVerifier("admin123")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if !v.Verify("admin123") {
		t.Error("expected correct password to verify")
	}
	if v.Verify("wrong") {
		t.Error("expected wrong password to fail")
	}
	if v.Verify("") {
		t.Error("expected empty password to fail")
	}
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	v, err := NewBcryptVerifier(string(hash))
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if !v.Verify("s3cret") {
		t.Error("expected correct password to verify")
	}
	if v.Verify("S3cret") {
		t.Error("expected case-changed password to fail")
	}
}

func TestNewVerifier(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)

	v, err := NewVerifier(string(hash), "from-plaintext")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if !v.Verify("from-hash") || v.Verify("from-plaintext") {
		t.Error("hash should take precedence over plaintext")
	}

	if _, err := NewVerifier("not-a-hash", ""); err == nil {
		t.Error("expected error for malformed hash")
	}
	if _, err := NewVerifier("", ""); err == nil {
		t.Error("expected error when no credential is configured")
	}
}
