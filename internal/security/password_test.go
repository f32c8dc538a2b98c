package security

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash == "password123" || hash == "" {
		t.Fatalf("hash should not be empty or equal to the plaintext")
	}

	if err := CheckPassword(hash, "password123"); err != nil {
		t.Fatalf("hash should verify the original password: %v", err)
	}

	if err := CheckPassword(hash, "password124"); err == nil {
		t.Fatalf("a wrong password must not verify")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("password123")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h2, err := HashPassword("password123")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("hashes should differ due to the random salt")
	}
}
