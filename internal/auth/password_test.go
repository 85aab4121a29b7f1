// ABOUTME: Tests for bcrypt password helpers
// ABOUTME: Covers hash round-trips and the empty-hash dummy path

package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "secret1" || hash == "" {
		t.Fatal("HashPassword() must not return the plaintext or empty string")
	}

	if !VerifyPassword(hash, "secret1") {
		t.Error("VerifyPassword() = false for correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	// The dummy path must fail but never panic.
	if VerifyPassword("", "anything") {
		t.Error("VerifyPassword() = true for empty hash")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	b, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ (per-record salt)")
	}
}
