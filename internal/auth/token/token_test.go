package token

import "testing"

func TestGenerateRandomToken_Unique(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens must not collide")
	}
	if a == "" {
		t.Fatal("token must not be empty")
	}
}

func TestHashSHA256_Deterministic(t *testing.T) {
	if HashSHA256("offer-token") != HashSHA256("offer-token") {
		t.Fatal("hash must be deterministic")
	}
	if HashSHA256("a") == HashSHA256("b") {
		t.Fatal("different inputs must hash differently")
	}
	if len(HashSHA256("x")) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(HashSHA256("x")))
	}
}
