package password_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/go-password/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// bcrypt benchmarks
// ──────────────────────────────────────────────────────────────────────────────
//
// Note: bcrypt is intentionally slow.  The Rounds12 variants are the
// real-world cost; the MinCost ones measure framework overhead only.

func BenchmarkBCrypt_MinCost_Hash(b *testing.B) {
	f, _ := password.NewBCryptFunction(password.BCryptOptions{Rounds: bcrypt.MinCost})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Hash("bench-password")
	}
}

func BenchmarkBCrypt_MinCost_Check(b *testing.B) {
	f, _ := password.NewBCryptFunction(password.BCryptOptions{Rounds: bcrypt.MinCost})
	h, _ := f.Hash("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Check("bench-password", h.Result())
	}
}

func BenchmarkBCrypt_Rounds12_Hash(b *testing.B) {
	f, _ := password.NewBCryptFunction(password.BCryptOptions{Rounds: password.DefaultBCryptRounds})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Hash("bench-password")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// scrypt benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkSCrypt_Default_Hash(b *testing.B) {
	f, _ := password.NewSCryptFunction(password.DefaultSCryptOptions())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Hash("bench-password")
	}
}

func BenchmarkSCrypt_Default_Check(b *testing.B) {
	f, _ := password.NewSCryptFunction(password.DefaultSCryptOptions())
	h, _ := f.Hash("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Check("bench-password", h.Result())
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2 benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkCompressedPBKDF2_Default_Hash(b *testing.B) {
	f, _ := password.NewCompressedPBKDF2Function(password.DefaultPBKDF2Options())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Hash("bench-password")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2 benchmarks
// ──────────────────────────────────────────────────────────────────────────────

func BenchmarkArgon2id_Default_Hash(b *testing.B) {
	f, _ := password.NewArgon2Function(password.DefaultArgon2Options())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Hash("bench-password")
	}
}

func BenchmarkArgon2id_Default_Check(b *testing.B) {
	f, _ := password.NewArgon2Function(password.DefaultArgon2Options())
	h, _ := f.Hash("bench-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Check("bench-password", h.Result())
	}
}
