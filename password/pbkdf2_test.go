package password_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/hasbyte1/go-password/password"
)

// fastPBKDF2Opts returns minimal PBKDF2 parameters for unit tests.
func fastPBKDF2Opts() password.PBKDF2Options {
	return password.PBKDF2Options{Hmac: password.HmacSHA256, Iterations: 10, KeyLength: 32}
}

func newTestPBKDF2Function(t *testing.T) *password.PBKDF2Function {
	t.Helper()
	f, err := password.NewPBKDF2Function(fastPBKDF2Opts())
	if err != nil {
		t.Fatalf("NewPBKDF2Function: %v", err)
	}
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Options and HMAC menu
// ──────────────────────────────────────────────────────────────────────────────

func TestNewPBKDF2Function_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts password.PBKDF2Options
	}{
		{"unknown hmac", password.PBKDF2Options{Hmac: "md5", Iterations: 10, KeyLength: 32}},
		{"zero iterations", password.PBKDF2Options{Hmac: password.HmacSHA256, Iterations: 0, KeyLength: 32}},
		{"tiny key", password.PBKDF2Options{Hmac: password.HmacSHA256, Iterations: 10, KeyLength: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := password.NewPBKDF2Function(tt.opts); !errors.Is(err, password.ErrInvalidParameters) {
				t.Errorf("expected ErrInvalidParameters, got %v", err)
			}
			if _, err := password.NewCompressedPBKDF2Function(tt.opts); !errors.Is(err, password.ErrInvalidParameters) {
				t.Errorf("compressed: expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}

func TestParseHmac(t *testing.T) {
	for _, valid := range []string{"sha1", "SHA256", " sha512 ", "sha224", "sha384"} {
		if _, ok := password.ParseHmac(valid); !ok {
			t.Errorf("ParseHmac(%q) not recognised", valid)
		}
	}
	for _, invalid := range []string{"", "md5", "sha3-256"} {
		if _, ok := password.ParseHmac(invalid); ok {
			t.Errorf("ParseHmac(%q) should not be recognised", invalid)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Plain PBKDF2: salt travels out-of-band
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2_HashAndCheckWithSalt(t *testing.T) {
	f, err := password.NewPBKDF2Function(fastPBKDF2Opts())
	if err != nil {
		t.Fatalf("NewPBKDF2Function: %v", err)
	}
	salt := []byte("0123456789abcdef")
	h, err := f.HashWithSalt("secret", salt)
	if err != nil {
		t.Fatalf("HashWithSalt: %v", err)
	}
	if !bytes.Equal(h.Salt(), salt) {
		t.Errorf("Hash.Salt() = %x, want %x", h.Salt(), salt)
	}
	// The bare artifact must not leak the salt.
	if strings.Contains(h.Result(), "$") {
		t.Errorf("plain pbkdf2 artifact should be bare base64, got %q", h.Result())
	}

	ok, err := f.CheckWithSalt("secret", h.Result(), salt)
	if err != nil || !ok {
		t.Errorf("CheckWithSalt(correct) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = f.CheckWithSalt("wrong", h.Result(), salt)
	if err != nil || ok {
		t.Errorf("CheckWithSalt(wrong) = (%v, %v), want (false, nil)", ok, err)
	}
	ok, err = f.CheckWithSalt("secret", h.Result(), []byte("different salt!!"))
	if err != nil || ok {
		t.Errorf("CheckWithSalt(wrong salt) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestPBKDF2_CheckWithoutSalt_Rejected(t *testing.T) {
	f, _ := password.NewPBKDF2Function(fastPBKDF2Opts())
	h, _ := f.Hash("secret")
	if _, err := f.Check("secret", h.Result()); !errors.Is(err, password.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compressed PBKDF2: self-describing artifact
// ──────────────────────────────────────────────────────────────────────────────

func TestCompressedPBKDF2_ParameterPacking(t *testing.T) {
	tests := []struct {
		hmac       password.Hmac
		iterations int
		keyLength  int
		wantUID    string
	}{
		{password.HmacSHA1, 10, 20, "1"},
		{password.HmacSHA256, 999, 32, "256"},
		{password.HmacSHA512, 7, 64, "512"},
	}
	for _, tt := range tests {
		t.Run(tt.wantUID, func(t *testing.T) {
			f, err := password.NewCompressedPBKDF2Function(password.PBKDF2Options{
				Hmac:       tt.hmac,
				Iterations: tt.iterations,
				KeyLength:  tt.keyLength,
			})
			if err != nil {
				t.Fatalf("NewCompressedPBKDF2Function: %v", err)
			}
			h, err := f.HashWithSalt("secret", []byte("0123456789abcdef"))
			if err != nil {
				t.Fatalf("HashWithSalt: %v", err)
			}
			parts := strings.Split(h.Result(), "$")
			if len(parts) != 5 {
				t.Fatalf("artifact has %d segments, want 5: %q", len(parts), h.Result())
			}
			if parts[1] != tt.wantUID {
				t.Errorf("hmac uid = %q, want %q", parts[1], tt.wantUID)
			}
			packed, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil {
				t.Fatalf("params field %q is not decimal: %v", parts[2], err)
			}
			if got := int(packed >> 32); got != tt.iterations {
				t.Errorf("unpacked iterations = %d, want %d", got, tt.iterations)
			}
			if got := int(packed & 0xffffffff); got != tt.keyLength {
				t.Errorf("unpacked key length = %d, want %d", got, tt.keyLength)
			}
		})
	}
}

func TestCompressedPBKDF2_HashAndCheck(t *testing.T) {
	f, err := password.NewCompressedPBKDF2Function(fastPBKDF2Opts())
	if err != nil {
		t.Fatalf("NewCompressedPBKDF2Function: %v", err)
	}
	h, err := f.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err := f.Check("secret", h.Result())
	if err != nil || !ok {
		t.Errorf("Check(correct) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = f.Check("wrong", h.Result())
	if err != nil || ok {
		t.Errorf("Check(wrong) = (%v, %v), want (false, nil)", ok, err)
	}
}

// TestCompressedPBKDF2_CheckRecoversParameters verifies with a function
// configured differently from the hasher: hmac, iterations, key length,
// and salt all come from the artifact.
func TestCompressedPBKDF2_CheckRecoversParameters(t *testing.T) {
	hasher, _ := password.NewCompressedPBKDF2Function(password.PBKDF2Options{
		Hmac: password.HmacSHA512, Iterations: 17, KeyLength: 48,
	})
	h, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	verifier, _ := password.NewCompressedPBKDF2Function(fastPBKDF2Opts())
	ok, err := verifier.Check("secret", h.Result())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !ok {
		t.Error("verification failed under a differently configured function")
	}
}

func TestCompressedPBKDF2_Check_MalformedArtifacts(t *testing.T) {
	f, _ := password.NewCompressedPBKDF2Function(fastPBKDF2Opts())
	tests := []struct {
		name   string
		hashed string
	}{
		{"empty", ""},
		{"bare base64", "AAAAQQQQ"},
		{"unknown hmac uid", "$999$42949672992$c2FsdHNhbHQ$AAAAAAAA"},
		{"non-numeric uid", "$sha$42949672992$c2FsdHNhbHQ$AAAAAAAA"},
		{"non-numeric params", "$256$abc$c2FsdHNhbHQ$AAAAAAAA"},
		{"zero iterations", "$256$32$c2FsdHNhbHQ$AAAAAAAA"},
		{"bad salt base64", "$256$42949672992$!!!$AAAAAAAA"},
		{"bad key base64", "$256$42949672992$c2FsdHNhbHQ$!!!"},
		{"missing segment", "$256$42949672992$c2FsdHNhbHQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.Check("secret", tt.hashed)
			if ok {
				t.Fatal("malformed artifact verified as true")
			}
			if !errors.Is(err, password.ErrMalformedHash) {
				t.Errorf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}
