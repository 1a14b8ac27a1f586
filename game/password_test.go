package game

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123!"

	hash1, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}

	// PHC format: $argon2id$v=..$m=..,t=..,p=..$salt$hash
	if !strings.HasPrefix(hash1, "$argon2id$") {
		t.Errorf("hash should start with $argon2id$, got: %q", hash1)
	}
	if parts := strings.Split(hash1, "$"); len(parts) != 6 {
		t.Errorf("hash should have 6 parts, got %d: %q", len(parts), hash1)
	}

	// Fresh salt every call.
	hash2, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword() second call error = %v", err)
	}
	if hash1 == hash2 {
		t.Error("hashPassword() should produce different hashes for same password (random salt)")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "testPassword123!"
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", password, hash, true},
		{"wrong password", "wrongPassword456!", hash, false},
		{"similar password", "testPassword123?", hash, false},
		{"empty password", "", hash, false},
		{"empty hash", password, "", false},
		{"wrong variant", password, "$argon2i$v=19$m=65536,t=1,p=4$abc$def", false},
		{"too few parts", password, "$argon2id$v=19", false},
		{"invalid base64 salt", password, "$argon2id$v=19$m=65536,t=1,p=4$!!!$def", false},
		{"invalid base64 hash", password, "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$!!!", false},
		{"invalid params", password, "$argon2id$v=19$invalid$abc$def", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verifyPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("verifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = hashPassword("benchmarkPassword123!")
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, _ := hashPassword("benchmarkPassword123!")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		verifyPassword("benchmarkPassword123!", hash)
	}
}
