package utils

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-till-key")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" || hash == "s3cret-till-key" {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if !CheckPasswordHash("s3cret-till-key", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestCheckPasswordHashInvalidHash(t *testing.T) {
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("malformed hash accepted")
	}
}
