package password

import "fmt"

// HashBuilder accumulates the ingredients of one hash-creation request:
// plaintext, optional salt, optional pepper.  Configuration methods chain
// and are idempotent per field (the last value wins); a terminal With* call
// performs the derivation.
//
// When a pepper is present, the function derives pepper+plaintext — the same
// composition the checker applies, so hash and check agree as long as the
// same pepper is supplied to both.
//
// Builders are single-use request objects.  They are NOT safe for concurrent
// use; share the resulting [Hash] and the [HashingFunction], never the
// builder itself.
type HashBuilder struct {
	plain string

	salt          []byte
	randomSaltLen int

	pepper        string
	hasPepper     bool
	pepperFromCfg bool

	finder *Finder
}

// NewHashBuilder starts a hash-creation chain for the given plaintext.
//
//	hash, err := password.NewHashBuilder("Sup3rSecr4t!").
//	        AddPepper().
//	        WithSCrypt()
func NewHashBuilder(plain string) *HashBuilder {
	return &HashBuilder{plain: plain}
}

// Using sets the [Finder] consulted by the per-family shorthands and by
// AddPepper.  Defaults to [DefaultFinder].
func (b *HashBuilder) Using(finder *Finder) *HashBuilder {
	b.finder = finder
	return b
}

// AddSalt supplies the exact salt for the derivation.  The salt ends up
// byte-identical in the artifact (for self-describing formats) and on the
// resulting [Hash].
func (b *HashBuilder) AddSalt(salt []byte) *HashBuilder {
	b.salt = salt
	b.randomSaltLen = 0
	return b
}

// AddRandomSalt requests a fresh random salt of the given length instead of
// the function's default salt policy.
func (b *HashBuilder) AddRandomSalt(length int) *HashBuilder {
	b.salt = nil
	b.randomSaltLen = length
	return b
}

// AddPepperValue concatenates the given pepper with the plaintext.  The
// produced sequence (pepper+plaintext) is what the function derives.
func (b *HashBuilder) AddPepperValue(pepper string) *HashBuilder {
	b.pepper = pepper
	b.hasPepper = true
	b.pepperFromCfg = false
	return b
}

// AddPepper concatenates the process-wide configured pepper (the
// global.pepper property) with the plaintext.  If no pepper is configured,
// the plaintext is used as-is.
func (b *HashBuilder) AddPepper() *HashBuilder {
	b.hasPepper = true
	b.pepperFromCfg = true
	return b
}

// With performs the derivation with an explicit [HashingFunction].
// This terminal does not consult the property source for parameters; only a
// config-sourced pepper (AddPepper) is resolved here.
func (b *HashBuilder) With(function HashingFunction) (Hash, error) {
	if function == nil {
		return Hash{}, fmt.Errorf("%w: nil hashing function", ErrInvalidParameters)
	}
	peppered := b.resolvePepper() + b.plain

	salt := b.salt
	if salt == nil && b.randomSaltLen != 0 {
		var err error
		salt, err = GenerateSalt(b.randomSaltLen)
		if err != nil {
			return Hash{}, err
		}
	}
	if salt != nil {
		return function.HashWithSalt(peppered, salt)
	}
	return function.Hash(peppered)
}

// WithBCrypt resolves the bcrypt function through the finder and derives.
func (b *HashBuilder) WithBCrypt() (Hash, error) {
	f, err := b.resolveFinder().BCryptInstance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

// WithSCrypt resolves the scrypt function through the finder and derives.
func (b *HashBuilder) WithSCrypt() (Hash, error) {
	f, err := b.resolveFinder().SCryptInstance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

// WithPBKDF2 resolves the PBKDF2 function through the finder and derives.
func (b *HashBuilder) WithPBKDF2() (Hash, error) {
	f, err := b.resolveFinder().PBKDF2Instance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

// WithCompressedPBKDF2 resolves the compressed PBKDF2 function through the
// finder and derives.
func (b *HashBuilder) WithCompressedPBKDF2() (Hash, error) {
	f, err := b.resolveFinder().CompressedPBKDF2Instance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

// WithArgon2 resolves the argon2 function through the finder and derives.
func (b *HashBuilder) WithArgon2() (Hash, error) {
	f, err := b.resolveFinder().Argon2Instance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

// WithMessageDigest resolves the message-digest function through the finder
// and derives.
func (b *HashBuilder) WithMessageDigest() (Hash, error) {
	f, err := b.resolveFinder().MessageDigestInstance()
	if err != nil {
		return Hash{}, err
	}
	return b.With(f)
}

func (b *HashBuilder) resolveFinder() *Finder {
	if b.finder != nil {
		return b.finder
	}
	return DefaultFinder()
}

func (b *HashBuilder) resolvePepper() string {
	if !b.hasPepper {
		return ""
	}
	if b.pepperFromCfg {
		pepper, _ := b.resolveFinder().Pepper()
		return pepper
	}
	return b.pepper
}
