package password

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

// Argon2Variant selects the Argon2 flavour.
//
// Argon2d is deliberately absent: x/crypto/argon2 does not implement it, and
// the data-dependent memory access that defines it is a poor fit for password
// hashing anyway (RFC 9106 recommends Argon2id).
type Argon2Variant string

const (
	// Argon2i uses data-independent memory access (side-channel resistant).
	Argon2i Argon2Variant = "argon2i"
	// Argon2id is the hybrid recommended by RFC 9106 for password hashing.
	Argon2id Argon2Variant = "argon2id"
)

const (
	// DefaultArgon2Memory is the default memory cost in KiB (64 MiB).
	// OWASP ASVS Level 2 requires ≥ 19 MiB; 64 MiB is the standard
	// production recommendation for Argon2id.
	DefaultArgon2Memory uint32 = 64 * 1024

	// DefaultArgon2Iterations is the default number of passes over memory.
	DefaultArgon2Iterations uint32 = 3

	// DefaultArgon2Parallelism is the default number of lanes.
	DefaultArgon2Parallelism uint8 = 2

	// DefaultArgon2KeyLength is the default derived key length in bytes.
	DefaultArgon2KeyLength uint32 = 32

	// argon2Version is the Argon2 specification version encoded in artifacts.
	argon2Version = argon2.Version // 0x13 = 19
)

// Argon2Options configures an [Argon2Function].
//
// All parameters are encoded into the output artifact (PHC string format),
// so changing them only affects newly produced hashes; existing hashes
// remain verifiable.
type Argon2Options struct {
	// Variant selects [Argon2i] or [Argon2id].  Default: [Argon2id].
	Variant Argon2Variant

	// Memory is the memory cost in KiB.
	// Minimum: 8 × Parallelism.  Default: [DefaultArgon2Memory].
	Memory uint32

	// Iterations is the number of passes over memory.
	// Minimum: 1.  Default: [DefaultArgon2Iterations].
	Iterations uint32

	// Parallelism is the number of lanes.
	// Minimum: 1.  Default: [DefaultArgon2Parallelism].
	Parallelism uint8

	// KeyLength is the derived key length in bytes.
	// Minimum: 4.  Default: [DefaultArgon2KeyLength].
	KeyLength uint32
}

// DefaultArgon2Options returns Argon2Options with the recommended defaults.
// These exceed OWASP ASVS Level 2 requirements.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Variant:     Argon2id,
		Memory:      DefaultArgon2Memory,
		Iterations:  DefaultArgon2Iterations,
		Parallelism: DefaultArgon2Parallelism,
		KeyLength:   DefaultArgon2KeyLength,
	}
}

func validateArgon2Options(opts Argon2Options) error {
	if opts.Variant != Argon2i && opts.Variant != Argon2id {
		return fmt.Errorf("%w: unsupported argon2 variant %q", ErrInvalidParameters, string(opts.Variant))
	}
	if opts.Iterations < 1 {
		return fmt.Errorf("%w: argon2 iterations must be ≥ 1, got %d", ErrInvalidParameters, opts.Iterations)
	}
	if opts.Parallelism < 1 {
		return fmt.Errorf("%w: argon2 parallelism must be ≥ 1, got %d", ErrInvalidParameters, opts.Parallelism)
	}
	if opts.Memory < 8*uint32(opts.Parallelism) {
		return fmt.Errorf("%w: argon2 memory (%d KiB) must be ≥ 8×parallelism (%d KiB)",
			ErrInvalidParameters, opts.Memory, 8*uint32(opts.Parallelism))
	}
	if opts.KeyLength < 4 {
		return fmt.Errorf("%w: argon2 key length must be ≥ 4, got %d", ErrInvalidParameters, opts.KeyLength)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2Function
// ──────────────────────────────────────────────────────────────────────────────

// Argon2Function hashes passwords using Argon2i or Argon2id.
//
// Output format is the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<base64(salt)>$<base64(derivedKey)>
//
// Base64 segments use the standard alphabet without padding, the convention
// of the Argon2 reference implementation.  All parameters round-trip from
// the artifact, so verification is independent of the function's current
// configuration.
//
// # Thread safety
//
// Argon2Function is immutable after construction and safe for concurrent use.
type Argon2Function struct {
	variant     Argon2Variant
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

// NewArgon2Function constructs an Argon2Function with the given options.
// Use [DefaultArgon2Options] for recommended defaults.
func NewArgon2Function(opts Argon2Options) (*Argon2Function, error) {
	if err := validateArgon2Options(opts); err != nil {
		return nil, err
	}
	return &Argon2Function{
		variant:     opts.Variant,
		memory:      opts.Memory,
		iterations:  opts.Iterations,
		parallelism: opts.Parallelism,
		keyLength:   opts.KeyLength,
	}, nil
}

// Algorithm returns [AlgorithmArgon2].
func (f *Argon2Function) Algorithm() Algorithm { return AlgorithmArgon2 }

// Options returns the current parameter set.
func (f *Argon2Function) Options() Argon2Options {
	return Argon2Options{
		Variant:     f.variant,
		Memory:      f.memory,
		Iterations:  f.iterations,
		Parallelism: f.parallelism,
		KeyLength:   f.keyLength,
	}
}

// RequiredMemoryBytes returns the configured memory cost in bytes.  At the
// default parameters this is 64 MiB per concurrent derivation.
func (f *Argon2Function) RequiredMemoryBytes() int64 { return int64(f.memory) * 1024 }

// Hash derives plain with a fresh [DefaultSaltLength]-byte random salt.
func (f *Argon2Function) Hash(plain string) (Hash, error) {
	salt, err := GenerateSalt(DefaultSaltLength)
	if err != nil {
		return Hash{}, err
	}
	return f.HashWithSalt(plain, salt)
}

// HashWithSalt derives plain with the caller-supplied salt and encodes the
// PHC artifact.  The salt is embedded byte-identically in the artifact.
func (f *Argon2Function) HashWithSalt(plain string, salt []byte) (Hash, error) {
	if len(salt) < 8 {
		return Hash{}, fmt.Errorf("%w: argon2 salt must be ≥ 8 bytes, got %d", ErrInvalidParameters, len(salt))
	}
	derived := f.derive([]byte(plain), salt, f.iterations, f.memory, f.parallelism, f.keyLength)
	encoded := fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		string(f.variant),
		argon2Version,
		f.memory,
		f.iterations,
		f.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(derived),
	)
	return newHash(f, encoded, salt), nil
}

// Check verifies plain against a PHC artifact.  Variant, version, costs,
// salt, and key length are all recovered from the artifact.
func (f *Argon2Function) Check(plain, hashed string) (bool, error) {
	p, err := decodeArgon2(hashed)
	if err != nil {
		return false, err
	}
	fn := *f
	fn.variant = p.variant
	computed := fn.derive([]byte(plain), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.derived)))
	return subtle.ConstantTimeCompare(computed, p.derived) == 1, nil
}

// CheckWithSalt behaves exactly like Check: the PHC artifact embeds its salt.
func (f *Argon2Function) CheckWithSalt(plain, hashed string, _ []byte) (bool, error) {
	return f.Check(plain, hashed)
}

func (f *Argon2Function) derive(plain, salt []byte, iterations, memory uint32, parallelism uint8, keyLength uint32) []byte {
	if f.variant == Argon2i {
		return argon2.Key(plain, salt, iterations, memory, parallelism, keyLength)
	}
	return argon2.IDKey(plain, salt, iterations, memory, parallelism, keyLength)
}

// ──────────────────────────────────────────────────────────────────────────────
// PHC codec
// ──────────────────────────────────────────────────────────────────────────────

// argon2Artifact holds fields decoded from a PHC string.
type argon2Artifact struct {
	variant     Argon2Variant
	version     int
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	derived     []byte
}

// decodeArgon2 parses an Argon2 PHC string.
//
// Expected shape (6 dollar-delimited segments, first is empty):
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
func decodeArgon2(hashed string) (*argon2Artifact, error) {
	if alg, ok := DetectAlgorithm(hashed); ok && alg != AlgorithmArgon2 {
		return nil, fmt.Errorf("%w: %w: artifact was produced by %s", ErrMalformedHash, ErrAlgorithmMismatch, alg)
	}
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5-segment PHC string, got %d segments", ErrMalformedHash, len(parts)-1)
	}

	var variant Argon2Variant
	switch parts[1] {
	case string(Argon2i):
		variant = Argon2i
	case string(Argon2id):
		variant = Argon2id
	default:
		return nil, fmt.Errorf("%w: unknown argon2 variant %q", ErrMalformedHash, parts[1])
	}

	version, err := parsePHCField(parts[2], "v")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if version != argon2Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrMalformedHash, version)
	}

	costs, err := parsePHCParams(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	memory, ok1 := costs["m"]
	iterations, ok2 := costs["t"]
	parallelism, ok3 := costs["p"]
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: missing m/t/p in cost segment %q", ErrMalformedHash, parts[3])
	}
	if iterations < 1 || parallelism < 1 || parallelism > 255 {
		return nil, fmt.Errorf("%w: cost segment decodes to t=%d, p=%d", ErrMalformedHash, iterations, parallelism)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt base64: %v", ErrMalformedHash, err)
	}
	derived, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid derived-key base64: %v", ErrMalformedHash, err)
	}
	// 4 bytes is the key-length floor enforced at construction; anything
	// shorter cannot be a produced artifact, and a zero length would be
	// passed straight into the derivation.
	if len(derived) < 4 {
		return nil, fmt.Errorf("%w: derived-key segment is %d bytes, need at least 4", ErrMalformedHash, len(derived))
	}

	return &argon2Artifact{
		variant:     variant,
		version:     int(version),
		memory:      uint32(memory),
		iterations:  uint32(iterations),
		parallelism: uint8(parallelism),
		salt:        salt,
		derived:     derived,
	}, nil
}

// parsePHCField parses a "key=value" field and returns the uint64 value.
func parsePHCField(s, key string) (uint64, error) {
	prefix := key + "="
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("expected %q prefix in %q", prefix, s)
	}
	return strconv.ParseUint(s[len(prefix):], 10, 32)
}

// parsePHCParams splits "m=65536,t=3,p=2" into a map.
func parsePHCParams(s string) (map[string]uint64, error) {
	out := make(map[string]uint64)
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("malformed cost parameter %q", kv)
		}
		v, err := strconv.ParseUint(kv[eq+1:], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value in %q: %v", kv, err)
		}
		out[kv[:eq]] = v
	}
	return out, nil
}
