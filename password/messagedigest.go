package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

// SaltOption controls where [MessageDigestFunction] places the salt relative
// to the plaintext before digesting.
type SaltOption int

const (
	// SaltAppend digests plaintext+salt (the default).
	SaltAppend SaltOption = iota
	// SaltPrepend digests salt+plaintext.
	SaltPrepend
)

// Digest names accepted by [NewMessageDigestFunction].
//
// MD5 is intentionally not offered.  SHA-1 is included solely so that legacy
// stores can still be verified during a migration; never produce new SHA-1
// hashes.
const (
	DigestSHA1       = "sha1"
	DigestSHA256     = "sha256"
	DigestSHA384     = "sha384"
	DigestSHA512     = "sha512"
	DigestSHA3_256   = "sha3-256"
	DigestSHA3_512   = "sha3-512"
	DigestBLAKE2b256 = "blake2b-256"
	DigestBLAKE2b512 = "blake2b-512"
)

// DefaultMDDigest is the digest used when configuration names none.
const DefaultMDDigest = DigestSHA512

// MessageDigestOptions configures a [MessageDigestFunction].
type MessageDigestOptions struct {
	// Digest is one of the Digest* constants.  Default: [DefaultMDDigest].
	Digest string

	// SaltOption controls salt placement.  Default: [SaltAppend].
	SaltOption SaltOption
}

// DefaultMessageDigestOptions returns MessageDigestOptions with the defaults.
func DefaultMessageDigestOptions() MessageDigestOptions {
	return MessageDigestOptions{Digest: DefaultMDDigest, SaltOption: SaltAppend}
}

// digestByName returns the hash constructor for a digest name.
func digestByName(name string) (func() hash.Hash, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DigestSHA1:
		return sha1.New, true
	case DigestSHA256:
		return sha256.New, true
	case DigestSHA384:
		return sha512.New384, true
	case DigestSHA512:
		return sha512.New, true
	case DigestSHA3_256:
		return sha3.New256, true
	case DigestSHA3_512:
		return sha3.New512, true
	case DigestBLAKE2b256:
		return func() hash.Hash { h, _ := blake2b.New256(nil); return h }, true
	case DigestBLAKE2b512:
		return func() hash.Hash { h, _ := blake2b.New512(nil); return h }, true
	default:
		return nil, false
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// MessageDigestFunction
// ──────────────────────────────────────────────────────────────────────────────

// MessageDigestFunction hashes passwords with a plain, unkeyed message
// digest.  The artifact is the hex encoding of the digest: it embeds no
// parameters and no salt, so salted hashes must be verified through
// [MessageDigestFunction.CheckWithSalt] with the original salt.
//
// A single digest pass has none of the cost tuning that makes a CHF suitable
// for password storage.  This function exists to verify and migrate legacy
// stores; pair it with a [HashUpdater] and move to argon2/scrypt/bcrypt.
//
// # Thread safety
//
// MessageDigestFunction is immutable after construction and safe for
// concurrent use.
type MessageDigestFunction struct {
	digest     string
	newDigest  func() hash.Hash
	saltOption SaltOption
}

// NewMessageDigestFunction constructs a MessageDigestFunction with the given
// options.  Returns [ErrInvalidParameters] for an unknown digest name.
func NewMessageDigestFunction(opts MessageDigestOptions) (*MessageDigestFunction, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Digest))
	newDigest, ok := digestByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown digest %q", ErrInvalidParameters, opts.Digest)
	}
	if opts.SaltOption != SaltAppend && opts.SaltOption != SaltPrepend {
		return nil, fmt.Errorf("%w: unknown salt option %d", ErrInvalidParameters, int(opts.SaltOption))
	}
	return &MessageDigestFunction{digest: name, newDigest: newDigest, saltOption: opts.SaltOption}, nil
}

// Algorithm returns [AlgorithmMessageDigest].
func (f *MessageDigestFunction) Algorithm() Algorithm { return AlgorithmMessageDigest }

// Digest returns the configured digest name.
func (f *MessageDigestFunction) Digest() string { return f.digest }

// RequiredMemoryBytes returns the digest's internal state size; message
// digests have no tunable memory cost.
func (f *MessageDigestFunction) RequiredMemoryBytes() int64 {
	return int64(f.newDigest().BlockSize() * 4)
}

// Hash digests plain without a salt.  Unlike the salted functions, no salt
// is generated here: the artifact could not carry it, and the legacy stores
// this function targets are defined by exactly this unsalted shape.
func (f *MessageDigestFunction) Hash(plain string) (Hash, error) {
	return newHash(f, f.hexDigest(plain, nil), nil), nil
}

// HashWithSalt digests plain with the salt placed according to the
// configured [SaltOption].  The salt is returned on the [Hash] but not
// embedded in the artifact.
func (f *MessageDigestFunction) HashWithSalt(plain string, salt []byte) (Hash, error) {
	if len(salt) == 0 {
		return Hash{}, fmt.Errorf("%w: empty salt; use the salt-free variant instead", ErrInvalidParameters)
	}
	return newHash(f, f.hexDigest(plain, salt), salt), nil
}

// Check verifies plain against an unsalted digest artifact.
func (f *MessageDigestFunction) Check(plain, hashed string) (bool, error) {
	return f.compare(plain, hashed, nil)
}

// CheckWithSalt verifies plain against a salted digest artifact, applying
// the salt exactly as HashWithSalt did.
func (f *MessageDigestFunction) CheckWithSalt(plain, hashed string, salt []byte) (bool, error) {
	if len(salt) == 0 {
		return false, fmt.Errorf("%w: empty salt; use the salt-free variant instead", ErrInvalidParameters)
	}
	return f.compare(plain, hashed, salt)
}

func (f *MessageDigestFunction) compare(plain, hashed string, salt []byte) (bool, error) {
	expected, err := hex.DecodeString(hashed)
	if err != nil {
		return false, fmt.Errorf("%w: artifact is not valid hex: %v", ErrMalformedHash, err)
	}
	d := f.newDigest()
	if len(expected) != d.Size() {
		return false, fmt.Errorf("%w: artifact is %d bytes, %s produces %d", ErrMalformedHash, len(expected), f.digest, d.Size())
	}
	computed, _ := hex.DecodeString(f.hexDigest(plain, salt))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func (f *MessageDigestFunction) hexDigest(plain string, salt []byte) string {
	d := f.newDigest()
	if salt == nil {
		d.Write([]byte(plain))
	} else if f.saltOption == SaltPrepend {
		d.Write(salt)
		d.Write([]byte(plain))
	} else {
		d.Write([]byte(plain))
		d.Write(salt)
	}
	return hex.EncodeToString(d.Sum(nil))
}
