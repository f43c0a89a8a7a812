package password_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hasbyte1/go-password/password"
)

func newTestFinder() *password.Finder {
	return password.NewFinder(fastProps())
}

// ──────────────────────────────────────────────────────────────────────────────
// Terminal operations
// ──────────────────────────────────────────────────────────────────────────────

func TestHashBuilder_WithExplicitFunction(t *testing.T) {
	f := newTestSCryptFunction(t)
	h, err := password.NewHashBuilder("secret").With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	ok, err := f.Check("secret", h.Result())
	if err != nil || !ok {
		t.Errorf("Check = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestHashBuilder_WithNilFunction(t *testing.T) {
	if _, err := password.NewHashBuilder("secret").With(nil); !errors.Is(err, password.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestHashBuilder_FamilyShorthands(t *testing.T) {
	fd := newTestFinder()
	terminals := map[string]func(*password.HashBuilder) (password.Hash, error){
		"bcrypt":            (*password.HashBuilder).WithBCrypt,
		"scrypt":            (*password.HashBuilder).WithSCrypt,
		"pbkdf2":            (*password.HashBuilder).WithPBKDF2,
		"compressed-pbkdf2": (*password.HashBuilder).WithCompressedPBKDF2,
		"argon2":            (*password.HashBuilder).WithArgon2,
		"message-digest":    (*password.HashBuilder).WithMessageDigest,
	}
	for name, terminal := range terminals {
		t.Run(name, func(t *testing.T) {
			h, err := terminal(password.NewHashBuilder("secret").Using(fd))
			if err != nil {
				t.Fatalf("terminal: %v", err)
			}
			if h.Result() == "" {
				t.Error("empty artifact")
			}
			if h.Function() == nil {
				t.Error("Hash.Function() is nil")
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Salt handling
// ──────────────────────────────────────────────────────────────────────────────

func TestHashBuilder_AddSalt_Deterministic(t *testing.T) {
	f := newTestSCryptFunction(t)
	salt := []byte("0123456789abcdef")

	h1, err := password.NewHashBuilder("secret").AddSalt(salt).With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	h2, _ := password.NewHashBuilder("secret").AddSalt(salt).With(f)
	if h1.Result() != h2.Result() {
		t.Error("same plaintext and salt should produce identical artifacts")
	}
	if !bytes.Equal(h1.Salt(), salt) {
		t.Errorf("Hash.Salt() = %x, want the supplied salt %x", h1.Salt(), salt)
	}
}

func TestHashBuilder_AddRandomSalt(t *testing.T) {
	f := newTestSCryptFunction(t)
	h, err := password.NewHashBuilder("secret").AddRandomSalt(24).With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if len(h.Salt()) != 24 {
		t.Errorf("salt length = %d, want 24", len(h.Salt()))
	}
}

func TestHashBuilder_AddRandomSalt_InvalidLength(t *testing.T) {
	f := newTestSCryptFunction(t)
	if _, err := password.NewHashBuilder("secret").AddRandomSalt(-1).With(f); !errors.Is(err, password.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pepper composition
// ──────────────────────────────────────────────────────────────────────────────

func TestHashBuilder_PepperRoundTrip(t *testing.T) {
	f := newTestSCryptFunction(t)
	h, err := password.NewHashBuilder("secret").AddPepperValue("pep").With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	ok, err := password.NewHashChecker("secret", h.Result()).AddPepperValue("pep").With(f)
	if err != nil || !ok {
		t.Errorf("matching pepper: check = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = password.NewHashChecker("secret", h.Result()).AddPepperValue("other").With(f)
	if err != nil || ok {
		t.Errorf("mismatched pepper: check = (%v, %v), want (false, nil)", ok, err)
	}
	ok, err = password.NewHashChecker("secret", h.Result()).With(f)
	if err != nil || ok {
		t.Errorf("missing pepper: check = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestHashBuilder_ConfiguredPepper(t *testing.T) {
	props := fastProps()
	props[password.PropertyPepper] = "process-wide"
	fd := password.NewFinder(props)
	f := newTestSCryptFunction(t)

	h, err := password.NewHashBuilder("secret").Using(fd).AddPepper().With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	// The configured pepper and the same value supplied explicitly agree.
	ok, err := password.NewHashChecker("secret", h.Result()).AddPepperValue("process-wide").With(f)
	if err != nil || !ok {
		t.Errorf("explicit pepper equal to configured one: check = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = password.NewHashChecker("secret", h.Result()).Using(fd).AddPepper().With(f)
	if err != nil || !ok {
		t.Errorf("configured pepper on both sides: check = (%v, %v), want (true, nil)", ok, err)
	}
}

// Pepper material must never end up inside the artifact.
func TestHashBuilder_PepperNotEncoded(t *testing.T) {
	f := newTestSCryptFunction(t)
	h, err := password.NewHashBuilder("secret").AddPepperValue("never-store-me").With(f)
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if got := h.Result(); bytes.Contains([]byte(got), []byte("never-store-me")) {
		t.Errorf("artifact %q leaks the pepper", got)
	}
}
