package crypto

import (
	"strings"
	"testing"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := &BcryptHasher{}

	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if hash == "pw123" {
		t.Error("hash must not equal the plaintext password")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt digest, got %q", hash)
	}

	if err := hasher.Compare(hash, "pw123"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	hasher := &BcryptHasher{}

	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Error("expected mismatch error for wrong password")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	hasher := &BcryptHasher{}

	if err := hasher.Compare("not-a-bcrypt-digest", "pw123"); err == nil {
		t.Error("expected error for malformed digest")
	}
}

func TestBcryptHasher_DistinctSalts(t *testing.T) {
	hasher := &BcryptHasher{}

	first, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == second {
		t.Error("expected distinct digests for the same password")
	}
}
