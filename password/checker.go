package password

import "fmt"

// HashChecker accumulates the ingredients of one verification request:
// plaintext, the previously produced artifact, optional salt (for formats
// that carry it out-of-band), optional pepper.  A terminal With* call
// delegates to the function's constant-time comparison.
//
// Checkers are single-use request objects and are NOT safe for concurrent
// use.
type HashChecker struct {
	plain    string
	hasPlain bool

	hashed string

	salt []byte

	pepper        string
	hasPepper     bool
	pepperFromCfg bool

	finder *Finder
}

// NewHashChecker starts a verification chain for the given plaintext and
// encoded artifact.
//
//	ok, err := password.NewHashChecker("Sup3rSecr4t!", stored).WithSCrypt()
func NewHashChecker(plain, hashed string) *HashChecker {
	return &HashChecker{plain: plain, hasPlain: true, hashed: hashed}
}

// Using sets the [Finder] consulted by the per-family shorthands and by
// AddPepper.  Defaults to [DefaultFinder].
func (c *HashChecker) Using(finder *Finder) *HashChecker {
	c.finder = finder
	return c
}

// AddSalt supplies the salt for artifact formats that do not embed one
// (PBKDF2, MessageDigest).  It must be byte-identical to the salt used at
// hash time, or verification fails closed.
func (c *HashChecker) AddSalt(salt []byte) *HashChecker {
	c.salt = salt
	return c
}

// AddPepperValue concatenates the given pepper with the plaintext before
// verification, mirroring the composition applied at hash time.
func (c *HashChecker) AddPepperValue(pepper string) *HashChecker {
	c.pepper = pepper
	c.hasPepper = true
	c.pepperFromCfg = false
	return c
}

// AddPepper concatenates the process-wide configured pepper (the
// global.pepper property) with the plaintext.
func (c *HashChecker) AddPepper() *HashChecker {
	c.hasPepper = true
	c.pepperFromCfg = true
	return c
}

// With verifies the artifact with an explicit [HashingFunction].
//
// A checker that never received a plaintext (the zero value) returns
// (false, nil) without invoking the function — a safe default, not an
// error.  A mismatch is likewise (false, nil); errors are reserved for
// malformed artifacts and invalid parameters.
func (c *HashChecker) With(function HashingFunction) (bool, error) {
	if !c.hasPlain {
		return false, nil
	}
	if function == nil {
		return false, fmt.Errorf("%w: nil hashing function", ErrInvalidParameters)
	}
	peppered := c.resolvePepper() + c.plain
	if c.salt != nil {
		return function.CheckWithSalt(peppered, c.hashed, c.salt)
	}
	return function.Check(peppered, c.hashed)
}

// WithBCrypt resolves the bcrypt function through the finder and verifies.
func (c *HashChecker) WithBCrypt() (bool, error) {
	f, err := c.resolveFinder().BCryptInstance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithSCrypt resolves the scrypt function through the finder and verifies.
func (c *HashChecker) WithSCrypt() (bool, error) {
	f, err := c.resolveFinder().SCryptInstance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithPBKDF2 resolves the PBKDF2 function through the finder and verifies.
func (c *HashChecker) WithPBKDF2() (bool, error) {
	f, err := c.resolveFinder().PBKDF2Instance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithCompressedPBKDF2 resolves the compressed PBKDF2 function through the
// finder and verifies.
func (c *HashChecker) WithCompressedPBKDF2() (bool, error) {
	f, err := c.resolveFinder().CompressedPBKDF2Instance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithArgon2 resolves the argon2 function through the finder and verifies.
func (c *HashChecker) WithArgon2() (bool, error) {
	f, err := c.resolveFinder().Argon2Instance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithMessageDigest resolves the message-digest function through the finder
// and verifies.
func (c *HashChecker) WithMessageDigest() (bool, error) {
	f, err := c.resolveFinder().MessageDigestInstance()
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// WithDetect routes verification to the family detected from the artifact
// prefix, resolved through the finder.  Returns [ErrMalformedHash] when the
// artifact matches no known prefix — PBKDF2 and message-digest artifacts
// are undetectable by design and need an explicit With*.
func (c *HashChecker) WithDetect() (bool, error) {
	alg, ok := DetectAlgorithm(c.hashed)
	if !ok {
		return false, fmt.Errorf("%w: artifact matches no known format", ErrMalformedHash)
	}
	f, err := c.resolveFinder().Instance(alg)
	if err != nil {
		return false, err
	}
	return c.With(f)
}

// AndUpdate creates a [HashUpdater] pre-seeded with this checker's
// plaintext, salt, and pepper, so a migration to a new function or
// parameter set never forces the caller to re-collect them.
func (c *HashChecker) AndUpdate() *HashUpdater {
	b := &HashBuilder{
		plain:         c.plain,
		salt:          c.salt,
		pepper:        c.pepper,
		hasPepper:     c.hasPepper,
		pepperFromCfg: c.pepperFromCfg,
		finder:        c.finder,
	}
	return &HashUpdater{checker: c, builder: b}
}

func (c *HashChecker) resolveFinder() *Finder {
	if c.finder != nil {
		return c.finder
	}
	return DefaultFinder()
}

func (c *HashChecker) resolvePepper() string {
	if !c.hasPepper {
		return ""
	}
	if c.pepperFromCfg {
		pepper, _ := c.resolveFinder().Pepper()
		return pepper
	}
	return c.pepper
}
