package password

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

const (
	// DefaultSCryptWorkFactor is the default CPU/memory cost N (must be a
	// power of two).  2^15 with r=8 requires 32 MiB per derivation, in line
	// with the OWASP scrypt recommendation.
	DefaultSCryptWorkFactor = 1 << 15

	// DefaultSCryptResources is the default block size r.
	DefaultSCryptResources = 8

	// DefaultSCryptParallelization is the default parallelization p.
	DefaultSCryptParallelization = 1

	// scryptKeyLength is the derived key length.  The $s0$ format fixes it
	// at 32 bytes; the actual length is recovered from the artifact during
	// verification, so foreign artifacts with other lengths still verify.
	scryptKeyLength = 32

	// scryptMinDerivedLength is the shortest derived-key segment accepted
	// during verification.  An empty segment would make the constant-time
	// compare trivially succeed against an empty recomputation, turning a
	// truncated artifact into a match for any plaintext.
	scryptMinDerivedLength = 10

	scryptPrefix = "$s0$"
)

// SCryptOptions configures an [SCryptFunction].
//
// The three parameters are packed into the artifact as a single hexadecimal
// integer (see [SCryptFunction.Hash]), which constrains Resources and
// Parallelization to one byte each.
type SCryptOptions struct {
	// WorkFactor is the CPU/memory cost N.  Must be a power of two ≥ 2.
	// Default: [DefaultSCryptWorkFactor].
	WorkFactor int

	// Resources is the block size r.  Valid range: [1, 255].
	// Default: [DefaultSCryptResources].
	Resources int

	// Parallelization is the parallelization p.  Valid range: [1, 255].
	// Default: [DefaultSCryptParallelization].
	Parallelization int
}

// DefaultSCryptOptions returns SCryptOptions with the recommended defaults.
func DefaultSCryptOptions() SCryptOptions {
	return SCryptOptions{
		WorkFactor:      DefaultSCryptWorkFactor,
		Resources:       DefaultSCryptResources,
		Parallelization: DefaultSCryptParallelization,
	}
}

func validateSCryptOptions(opts SCryptOptions) error {
	n, r, p := opts.WorkFactor, opts.Resources, opts.Parallelization
	if n < 2 || n&(n-1) != 0 {
		return fmt.Errorf("%w: scrypt work factor N=%d must be a power of two ≥ 2", ErrInvalidParameters, n)
	}
	if r < 1 || r > 255 {
		return fmt.Errorf("%w: scrypt resources r=%d must be in [1, 255]", ErrInvalidParameters, r)
	}
	if p < 1 || p > 255 {
		return fmt.Errorf("%w: scrypt parallelization p=%d must be in [1, 255]", ErrInvalidParameters, p)
	}
	// Constraints imposed by the scrypt definition itself.
	if uint64(r)*uint64(p) >= 1<<30 {
		return fmt.Errorf("%w: scrypt r·p=%d exceeds 2^30", ErrInvalidParameters, r*p)
	}
	if int64(n) > (1<<63-1)/(128*int64(r)*int64(p)) {
		return fmt.Errorf("%w: scrypt N=%d, r=%d, p=%d would overflow the memory requirement",
			ErrInvalidParameters, n, r, p)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// SCryptFunction
// ──────────────────────────────────────────────────────────────────────────────

// SCryptFunction hashes passwords using the scrypt algorithm.
//
// Output format is the $s0$ convention established by the lambdaworks scrypt
// implementation:
//
//	$s0$<hexParams>$<base64(salt)>$<base64(derivedKey)>
//
// where hexParams packs all three cost parameters into one integer:
//
//	log2(N) << 16 | r << 8 | p
//
// Base64 segments use the standard alphabet without padding.  Everything
// needed for verification round-trips from the artifact alone.
//
// # Thread safety
//
// SCryptFunction is immutable after construction and safe for concurrent use.
type SCryptFunction struct {
	workFactor      int
	resources       int
	parallelization int

	// requiredBytes = 128·N·r·p, fixed at construction time.
	requiredBytes int64
}

// NewSCryptFunction constructs an SCryptFunction with the given options.
// Use [DefaultSCryptOptions] for recommended defaults.
//
// Parameter validation happens here, eagerly: a non-power-of-two work factor
// or an out-of-byte-range r/p is rejected with [ErrInvalidParameters] before
// any hash is attempted.
func NewSCryptFunction(opts SCryptOptions) (*SCryptFunction, error) {
	if err := validateSCryptOptions(opts); err != nil {
		return nil, err
	}
	return &SCryptFunction{
		workFactor:      opts.WorkFactor,
		resources:       opts.Resources,
		parallelization: opts.Parallelization,
		requiredBytes:   128 * int64(opts.WorkFactor) * int64(opts.Resources) * int64(opts.Parallelization),
	}, nil
}

// Algorithm returns [AlgorithmSCrypt].
func (f *SCryptFunction) Algorithm() Algorithm { return AlgorithmSCrypt }

// Options returns the current scrypt parameter set.
func (f *SCryptFunction) Options() SCryptOptions {
	return SCryptOptions{
		WorkFactor:      f.workFactor,
		Resources:       f.resources,
		Parallelization: f.parallelization,
	}
}

// RequiredMemoryBytes returns 128·N·r·p, the working memory one derivation
// allocates.  At the default parameters this is 32 MiB; callers admitting
// concurrent derivations should budget accordingly.
func (f *SCryptFunction) RequiredMemoryBytes() int64 { return f.requiredBytes }

// Hash derives plain with a fresh [DefaultSaltLength]-byte random salt.
func (f *SCryptFunction) Hash(plain string) (Hash, error) {
	salt, err := GenerateSalt(DefaultSaltLength)
	if err != nil {
		return Hash{}, err
	}
	return f.HashWithSalt(plain, salt)
}

// HashWithSalt derives plain with the caller-supplied salt and encodes the
// $s0$ artifact.  The salt is embedded byte-identically in the artifact.
func (f *SCryptFunction) HashWithSalt(plain string, salt []byte) (Hash, error) {
	if len(salt) == 0 {
		return Hash{}, fmt.Errorf("%w: scrypt requires a non-empty salt", ErrInvalidParameters)
	}
	derived, err := scrypt.Key([]byte(plain), salt, f.workFactor, f.resources, f.parallelization, scryptKeyLength)
	if err != nil {
		// x/crypto/scrypt re-checks the parameter domain; a failure here
		// carries N/r/p for diagnostics but never the plaintext.
		return Hash{}, fmt.Errorf("%w: scrypt rejected N=%d, r=%d, p=%d: %v",
			ErrInvalidParameters, f.workFactor, f.resources, f.parallelization, err)
	}

	params := int64(log2(f.workFactor))<<16 | int64(f.resources)<<8 | int64(f.parallelization)
	var sb strings.Builder
	sb.WriteString(scryptPrefix)
	sb.WriteString(strconv.FormatInt(params, 16))
	sb.WriteByte('$')
	sb.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(base64.RawStdEncoding.EncodeToString(derived))
	return newHash(f, sb.String(), salt), nil
}

// Check verifies plain against a $s0$ artifact.  N, r, p, the salt, and the
// key length are all recovered from the artifact, so verification succeeds
// even when the function's own parameters have since changed.
func (f *SCryptFunction) Check(plain, hashed string) (bool, error) {
	n, r, p, salt, derived, err := decodeSCrypt(hashed)
	if err != nil {
		return false, err
	}
	computed, err := scrypt.Key([]byte(plain), salt, n, r, p, len(derived))
	if err != nil {
		return false, fmt.Errorf("%w: artifact carries unusable parameters N=%d, r=%d, p=%d: %v",
			ErrMalformedHash, n, r, p, err)
	}
	return subtle.ConstantTimeCompare(computed, derived) == 1, nil
}

// CheckWithSalt behaves exactly like Check: the $s0$ artifact embeds its own
// salt, and the embedded value is authoritative.
func (f *SCryptFunction) CheckWithSalt(plain, hashed string, _ []byte) (bool, error) {
	return f.Check(plain, hashed)
}

// ──────────────────────────────────────────────────────────────────────────────
// $s0$ codec
// ──────────────────────────────────────────────────────────────────────────────

// decodeSCrypt parses a $s0$ artifact into its parameters, salt, and derived
// key.  The packed field inverts the encoding in HashWithSalt exactly:
// p and r are the low two bytes, log2(N) the remaining high bits.
func decodeSCrypt(hashed string) (n, r, p int, salt, derived []byte, err error) {
	if alg, ok := DetectAlgorithm(hashed); ok && alg != AlgorithmSCrypt {
		return 0, 0, 0, nil, nil,
			fmt.Errorf("%w: %w: artifact was produced by %s", ErrMalformedHash, ErrAlgorithmMismatch, alg)
	}
	parts := strings.Split(hashed, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "s0" {
		return 0, 0, 0, nil, nil,
			fmt.Errorf("%w: expected $s0$<params>$<salt>$<key>, got %d segments", ErrMalformedHash, len(parts)-1)
	}
	params, err := strconv.ParseInt(parts[2], 16, 64)
	if err != nil || params < 0 {
		return 0, 0, 0, nil, nil,
			fmt.Errorf("%w: non-hexadecimal scrypt parameter field %q", ErrMalformedHash, parts[2])
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: invalid salt base64: %v", ErrMalformedHash, err)
	}
	derived, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: invalid derived-key base64: %v", ErrMalformedHash, err)
	}

	if len(salt) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: empty salt segment", ErrMalformedHash)
	}
	if len(derived) < scryptMinDerivedLength {
		return 0, 0, 0, nil, nil,
			fmt.Errorf("%w: derived-key segment is %d bytes, need at least %d",
				ErrMalformedHash, len(derived), scryptMinDerivedLength)
	}

	p = int(params & 0xff)
	r = int(params >> 8 & 0xff)
	log2N := params >> 16
	if log2N < 1 || log2N > 62 || r == 0 || p == 0 {
		return 0, 0, 0, nil, nil,
			fmt.Errorf("%w: scrypt parameter field decodes to log2(N)=%d, r=%d, p=%d", ErrMalformedHash, log2N, r, p)
	}
	n = 1 << log2N
	return n, r, p, salt, derived, nil
}

// log2 computes the base-2 logarithm of a power of two via bit scanning.
// No floating point is involved, so there is no precision loss at large N.
func log2(n int) int {
	v := uint64(n)
	log := 0
	if v&0xffffffff00000000 != 0 {
		v >>= 32
		log = 32
	}
	if v&0xffff0000 != 0 {
		v >>= 16
		log += 16
	}
	if v >= 256 {
		v >>= 8
		log += 8
	}
	if v >= 16 {
		v >>= 4
		log += 4
	}
	if v >= 4 {
		v >>= 2
		log += 2
	}
	return log + int(v>>1)
}
