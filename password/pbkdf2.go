package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ──────────────────────────────────────────────────────────────────────────────
// HMAC variants
// ──────────────────────────────────────────────────────────────────────────────

// Hmac selects the pseudo-random function driving PBKDF2.
type Hmac string

const (
	HmacSHA1   Hmac = "sha1"
	HmacSHA224 Hmac = "sha224"
	HmacSHA256 Hmac = "sha256"
	HmacSHA384 Hmac = "sha384"
	HmacSHA512 Hmac = "sha512"
)

// uid returns the numeric identifier embedded in compressed artifacts.
func (h Hmac) uid() int {
	switch h {
	case HmacSHA1:
		return 1
	case HmacSHA224:
		return 224
	case HmacSHA256:
		return 256
	case HmacSHA384:
		return 384
	case HmacSHA512:
		return 512
	default:
		return 0
	}
}

// newHash returns the underlying hash constructor, or nil for an unknown Hmac.
func (h Hmac) newHash() func() hash.Hash {
	switch h {
	case HmacSHA1:
		return sha1.New
	case HmacSHA224:
		return sha256.New224
	case HmacSHA256:
		return sha256.New
	case HmacSHA384:
		return sha512.New384
	case HmacSHA512:
		return sha512.New
	default:
		return nil
	}
}

func hmacByUID(uid int) (Hmac, bool) {
	switch uid {
	case 1:
		return HmacSHA1, true
	case 224:
		return HmacSHA224, true
	case 256:
		return HmacSHA256, true
	case 384:
		return HmacSHA384, true
	case 512:
		return HmacSHA512, true
	default:
		return "", false
	}
}

// ParseHmac converts a configuration string such as "sha256" into an [Hmac].
func ParseHmac(s string) (Hmac, bool) {
	h := Hmac(strings.ToLower(strings.TrimSpace(s)))
	return h, h.uid() != 0
}

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

const (
	// DefaultPBKDF2Hmac is the default pseudo-random function.
	DefaultPBKDF2Hmac = HmacSHA256

	// DefaultPBKDF2Iterations follows the OWASP recommendation for
	// PBKDF2-HMAC-SHA256 (600,000 iterations as of 2023).
	DefaultPBKDF2Iterations = 600_000

	// DefaultPBKDF2KeyLength is the derived key length in bytes.
	DefaultPBKDF2KeyLength = 32
)

// PBKDF2Options configures a [PBKDF2Function] or [CompressedPBKDF2Function].
type PBKDF2Options struct {
	// Hmac is the pseudo-random function.  Default: [DefaultPBKDF2Hmac].
	Hmac Hmac

	// Iterations is the iteration count.  Minimum: 1.
	// Default: [DefaultPBKDF2Iterations].
	Iterations int

	// KeyLength is the derived key length in bytes.  Minimum: 4.
	// Default: [DefaultPBKDF2KeyLength].
	KeyLength int
}

// DefaultPBKDF2Options returns PBKDF2Options with the recommended defaults.
func DefaultPBKDF2Options() PBKDF2Options {
	return PBKDF2Options{
		Hmac:       DefaultPBKDF2Hmac,
		Iterations: DefaultPBKDF2Iterations,
		KeyLength:  DefaultPBKDF2KeyLength,
	}
}

func validatePBKDF2Options(opts PBKDF2Options) error {
	if opts.Hmac.uid() == 0 {
		return fmt.Errorf("%w: unknown PBKDF2 hmac %q", ErrInvalidParameters, string(opts.Hmac))
	}
	if opts.Iterations < 1 {
		return fmt.Errorf("%w: pbkdf2 iterations must be ≥ 1, got %d", ErrInvalidParameters, opts.Iterations)
	}
	if opts.KeyLength < 4 {
		return fmt.Errorf("%w: pbkdf2 key length must be ≥ 4, got %d", ErrInvalidParameters, opts.KeyLength)
	}
	// The compressed format packs the key length into the low 32 bits.
	if int64(opts.KeyLength) > 1<<31-1 {
		return fmt.Errorf("%w: pbkdf2 key length %d does not fit the artifact format", ErrInvalidParameters, opts.KeyLength)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2Function
// ──────────────────────────────────────────────────────────────────────────────

// PBKDF2Function hashes passwords using PBKDF2 with a configurable HMAC.
//
// The artifact is the bare base64 encoding of the derived key: it embeds
// neither parameters nor salt.  The salt must be stored out-of-band and
// supplied again through [PBKDF2Function.CheckWithSalt], and verification
// uses the function's own configured iterations and key length.  If you
// want a self-describing artifact, use [CompressedPBKDF2Function].
//
// # Thread safety
//
// PBKDF2Function is immutable after construction and safe for concurrent use.
type PBKDF2Function struct {
	hmac       Hmac
	iterations int
	keyLength  int
}

// NewPBKDF2Function constructs a PBKDF2Function with the given options.
// Use [DefaultPBKDF2Options] for recommended defaults.
func NewPBKDF2Function(opts PBKDF2Options) (*PBKDF2Function, error) {
	if err := validatePBKDF2Options(opts); err != nil {
		return nil, err
	}
	return &PBKDF2Function{hmac: opts.Hmac, iterations: opts.Iterations, keyLength: opts.KeyLength}, nil
}

// Algorithm returns [AlgorithmPBKDF2].
func (f *PBKDF2Function) Algorithm() Algorithm { return AlgorithmPBKDF2 }

// Options returns the current parameter set.
func (f *PBKDF2Function) Options() PBKDF2Options {
	return PBKDF2Options{Hmac: f.hmac, Iterations: f.iterations, KeyLength: f.keyLength}
}

// RequiredMemoryBytes returns the small fixed HMAC state size; PBKDF2 is
// CPU-bound, not memory-hard.
func (f *PBKDF2Function) RequiredMemoryBytes() int64 {
	return int64(f.hmac.newHash()().BlockSize() * 4)
}

// Hash derives plain with a fresh [DefaultSaltLength]-byte random salt.
// The salt is returned on the [Hash] but not embedded in the artifact.
func (f *PBKDF2Function) Hash(plain string) (Hash, error) {
	salt, err := GenerateSalt(DefaultSaltLength)
	if err != nil {
		return Hash{}, err
	}
	return f.HashWithSalt(plain, salt)
}

// HashWithSalt derives plain with the caller-supplied salt.
func (f *PBKDF2Function) HashWithSalt(plain string, salt []byte) (Hash, error) {
	if len(salt) == 0 {
		return Hash{}, fmt.Errorf("%w: pbkdf2 requires a non-empty salt", ErrInvalidParameters)
	}
	derived := pbkdf2.Key([]byte(plain), salt, f.iterations, f.keyLength, f.hmac.newHash())
	return newHash(f, base64.RawStdEncoding.EncodeToString(derived), salt), nil
}

// Check always fails with [ErrInvalidParameters]: the bare artifact carries
// no salt, so verification is ill-defined without one.
func (f *PBKDF2Function) Check(plain, hashed string) (bool, error) {
	return false, fmt.Errorf("%w: pbkdf2 artifacts carry no salt; use the salt-accepting check", ErrInvalidParameters)
}

// CheckWithSalt recomputes the derivation with the function's configured
// parameters and the supplied salt, then compares in constant time.
func (f *PBKDF2Function) CheckWithSalt(plain, hashed string, salt []byte) (bool, error) {
	if len(salt) == 0 {
		return false, fmt.Errorf("%w: pbkdf2 requires a non-empty salt", ErrInvalidParameters)
	}
	expected, err := base64.RawStdEncoding.DecodeString(hashed)
	if err != nil {
		return false, fmt.Errorf("%w: artifact is not valid base64: %v", ErrMalformedHash, err)
	}
	computed := pbkdf2.Key([]byte(plain), salt, f.iterations, f.keyLength, f.hmac.newHash())
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// CompressedPBKDF2Function
// ──────────────────────────────────────────────────────────────────────────────

// CompressedPBKDF2Function is PBKDF2 with a self-describing artifact:
//
//	$<hmacUID>$<params>$<base64(salt)>$<base64(derivedKey)>
//
// where hmacUID is the numeric HMAC identifier (1, 224, 256, 384 or 512)
// and params packs iterations and key length into one decimal integer:
//
//	iterations << 32 | keyLength
//
// Everything round-trips from the artifact alone, so [Check] needs no
// external salt and verifies artifacts produced under parameters that
// differ from the function's current configuration.
//
// # Thread safety
//
// CompressedPBKDF2Function is immutable after construction and safe for
// concurrent use.
type CompressedPBKDF2Function struct {
	inner PBKDF2Function
}

// NewCompressedPBKDF2Function constructs a CompressedPBKDF2Function with the
// given options.  Use [DefaultPBKDF2Options] for recommended defaults.
func NewCompressedPBKDF2Function(opts PBKDF2Options) (*CompressedPBKDF2Function, error) {
	if err := validatePBKDF2Options(opts); err != nil {
		return nil, err
	}
	return &CompressedPBKDF2Function{
		inner: PBKDF2Function{hmac: opts.Hmac, iterations: opts.Iterations, keyLength: opts.KeyLength},
	}, nil
}

// Algorithm returns [AlgorithmCompressedPBKDF2].
func (f *CompressedPBKDF2Function) Algorithm() Algorithm { return AlgorithmCompressedPBKDF2 }

// Options returns the current parameter set.
func (f *CompressedPBKDF2Function) Options() PBKDF2Options { return f.inner.Options() }

// RequiredMemoryBytes returns the small fixed HMAC state size.
func (f *CompressedPBKDF2Function) RequiredMemoryBytes() int64 { return f.inner.RequiredMemoryBytes() }

// Hash derives plain with a fresh [DefaultSaltLength]-byte random salt.
func (f *CompressedPBKDF2Function) Hash(plain string) (Hash, error) {
	salt, err := GenerateSalt(DefaultSaltLength)
	if err != nil {
		return Hash{}, err
	}
	return f.HashWithSalt(plain, salt)
}

// HashWithSalt derives plain with the caller-supplied salt and encodes the
// self-describing artifact.
func (f *CompressedPBKDF2Function) HashWithSalt(plain string, salt []byte) (Hash, error) {
	if len(salt) == 0 {
		return Hash{}, fmt.Errorf("%w: pbkdf2 requires a non-empty salt", ErrInvalidParameters)
	}
	derived := pbkdf2.Key([]byte(plain), salt, f.inner.iterations, f.inner.keyLength, f.inner.hmac.newHash())
	params := int64(f.inner.iterations)<<32 | int64(f.inner.keyLength)
	var sb strings.Builder
	sb.WriteByte('$')
	sb.WriteString(strconv.Itoa(f.inner.hmac.uid()))
	sb.WriteByte('$')
	sb.WriteString(strconv.FormatInt(params, 10))
	sb.WriteByte('$')
	sb.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(base64.RawStdEncoding.EncodeToString(derived))
	return newHash(f, sb.String(), salt), nil
}

// Check verifies plain against a compressed artifact.  HMAC, iterations,
// key length, and salt are all recovered from the artifact.
func (f *CompressedPBKDF2Function) Check(plain, hashed string) (bool, error) {
	hmac, iterations, keyLength, salt, derived, err := decodeCompressedPBKDF2(hashed)
	if err != nil {
		return false, err
	}
	computed := pbkdf2.Key([]byte(plain), salt, iterations, keyLength, hmac.newHash())
	return subtle.ConstantTimeCompare(computed, derived) == 1, nil
}

// CheckWithSalt behaves exactly like Check: the artifact embeds its salt.
func (f *CompressedPBKDF2Function) CheckWithSalt(plain, hashed string, _ []byte) (bool, error) {
	return f.Check(plain, hashed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compressed artifact codec
// ──────────────────────────────────────────────────────────────────────────────

// decodeCompressedPBKDF2 inverts the packing in HashWithSalt: key length is
// the low 32 bits of the params field, iterations the high bits.
func decodeCompressedPBKDF2(hashed string) (hmac Hmac, iterations, keyLength int, salt, derived []byte, err error) {
	if alg, ok := DetectAlgorithm(hashed); ok && alg != AlgorithmCompressedPBKDF2 {
		return "", 0, 0, nil, nil,
			fmt.Errorf("%w: %w: artifact was produced by %s", ErrMalformedHash, ErrAlgorithmMismatch, alg)
	}
	parts := strings.Split(hashed, "$")
	if len(parts) != 5 || parts[0] != "" {
		return "", 0, 0, nil, nil,
			fmt.Errorf("%w: expected $<hmac>$<params>$<salt>$<key>, got %d segments", ErrMalformedHash, len(parts)-1)
	}
	uid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, nil, nil, fmt.Errorf("%w: non-numeric hmac identifier %q", ErrMalformedHash, parts[1])
	}
	hmac, ok := hmacByUID(uid)
	if !ok {
		return "", 0, 0, nil, nil, fmt.Errorf("%w: unknown hmac identifier %d", ErrMalformedHash, uid)
	}
	params, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || params < 0 {
		return "", 0, 0, nil, nil, fmt.Errorf("%w: non-numeric parameter field %q", ErrMalformedHash, parts[2])
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", 0, 0, nil, nil, fmt.Errorf("%w: invalid salt base64: %v", ErrMalformedHash, err)
	}
	derived, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return "", 0, 0, nil, nil, fmt.Errorf("%w: invalid derived-key base64: %v", ErrMalformedHash, err)
	}

	keyLength = int(params & 0xffffffff)
	iterations = int(params >> 32)
	if iterations < 1 || keyLength < 1 {
		return "", 0, 0, nil, nil,
			fmt.Errorf("%w: parameter field decodes to iterations=%d, length=%d", ErrMalformedHash, iterations, keyLength)
	}
	return hmac, iterations, keyLength, salt, derived, nil
}

// looksLikeCompressedPBKDF2 reports whether hashed has the shape of a
// compressed PBKDF2 artifact.  Used by [DetectAlgorithm]; the numeric-uid
// prefix is the only distinguishing mark the format has.
func looksLikeCompressedPBKDF2(hashed string) bool {
	parts := strings.Split(hashed, "$")
	if len(parts) != 5 || parts[0] != "" {
		return false
	}
	uid, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	_, ok := hmacByUID(uid)
	return ok
}
