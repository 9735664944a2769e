package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := &BcryptHasher{cost: bcrypt.MinCost}

	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if digest == "s3cret" {
		t.Fatalf("digest must not equal the plaintext")
	}
	if !h.Verify("s3cret", digest) {
		t.Fatalf("expected digest to verify against its password")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestBcryptHasher_NonDeterministic(t *testing.T) {
	h := &BcryptHasher{cost: bcrypt.MinCost}

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Fatalf("bcrypt digests must be salted, got identical output")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher()

	for _, digest := range []string{"", "not-a-bcrypt-hash", "$2a$xx$broken"} {
		if h.Verify("anything", digest) {
			t.Fatalf("malformed digest %q must not verify", digest)
		}
	}
}

func TestGenerateTemporaryPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		temp, err := generateTemporaryPassword()
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(temp) != tempPasswordLength {
			t.Fatalf("expected length %d, got %q", tempPasswordLength, temp)
		}
		for _, r := range temp {
			if !strings.ContainsRune(tempPasswordAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, temp)
			}
		}
		seen[temp] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected distinct credentials across calls")
	}
}
