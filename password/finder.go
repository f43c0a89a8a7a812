package password

import (
	"fmt"
	"strings"
	"sync"
)

// Finder resolves CHF families into ready-to-use [HashingFunction] instances,
// applying the resolution order: explicit caller parameters (the New*Function
// constructors, which bypass the Finder entirely) > values from the
// [PropertySource] > hardcoded safe defaults.
//
// Resolution is idempotent and cached per parameter set: repeated calls with
// an unchanged property source return the same instance, and instances are
// safe to share across goroutines.
//
// # Thread safety
//
// All Finder methods are safe for concurrent use.  A [sync.RWMutex] guards
// the resolution cache, allowing concurrent lookups.
type Finder struct {
	source PropertySource

	mu    sync.RWMutex
	cache map[string]HashingFunction
}

// NewFinder creates a Finder over the given property source.
// Use [DefaultFinder] for the process-wide finder backed by [EnvSource].
func NewFinder(source PropertySource) *Finder {
	if source == nil {
		source = MapSource(nil)
	}
	return &Finder{source: source, cache: make(map[string]HashingFunction)}
}

var (
	defaultFinderOnce sync.Once
	defaultFinder     *Finder
)

// DefaultFinder returns the process-wide Finder backed by [EnvSource].
// It is built once and is immutable thereafter; callers needing different
// configuration construct their own Finder and hand it to the builder chain
// via Using.
func DefaultFinder() *Finder {
	defaultFinderOnce.Do(func() {
		defaultFinder = NewFinder(EnvSource{})
	})
	return defaultFinder
}

// Pepper returns the process-wide pepper from the property source, and
// whether one is configured.
func (fd *Finder) Pepper() (string, bool) {
	return fd.source.Lookup(PropertyPepper)
}

// ──────────────────────────────────────────────────────────────────────────────
// Per-family resolution
// ──────────────────────────────────────────────────────────────────────────────

// BCryptInstance resolves a [BCryptFunction] from configuration.
func (fd *Finder) BCryptInstance() (*BCryptFunction, error) {
	rounds, err := lookupInt(fd.source, PropertyBCryptRounds, DefaultBCryptRounds)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("bcrypt/%d", rounds)
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewBCryptFunction(BCryptOptions{Rounds: rounds})
	})
	if err != nil {
		return nil, err
	}
	return f.(*BCryptFunction), nil
}

// SCryptInstance resolves an [SCryptFunction] from configuration.
func (fd *Finder) SCryptInstance() (*SCryptFunction, error) {
	n, err := lookupInt(fd.source, PropertySCryptWorkFactor, DefaultSCryptWorkFactor)
	if err != nil {
		return nil, err
	}
	r, err := lookupInt(fd.source, PropertySCryptResources, DefaultSCryptResources)
	if err != nil {
		return nil, err
	}
	p, err := lookupInt(fd.source, PropertySCryptParallelization, DefaultSCryptParallelization)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("scrypt/%d/%d/%d", n, r, p)
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewSCryptFunction(SCryptOptions{WorkFactor: n, Resources: r, Parallelization: p})
	})
	if err != nil {
		return nil, err
	}
	return f.(*SCryptFunction), nil
}

// pbkdf2Options resolves the parameter set shared by both PBKDF2 flavours.
func (fd *Finder) pbkdf2Options() (PBKDF2Options, error) {
	raw := lookupString(fd.source, PropertyPBKDF2Algorithm, string(DefaultPBKDF2Hmac))
	hmac, ok := ParseHmac(raw)
	if !ok {
		return PBKDF2Options{}, fmt.Errorf("%w: property %s=%q names an unknown hmac",
			ErrConfiguration, PropertyPBKDF2Algorithm, raw)
	}
	iterations, err := lookupInt(fd.source, PropertyPBKDF2Iterations, DefaultPBKDF2Iterations)
	if err != nil {
		return PBKDF2Options{}, err
	}
	keyLength, err := lookupInt(fd.source, PropertyPBKDF2KeyLength, DefaultPBKDF2KeyLength)
	if err != nil {
		return PBKDF2Options{}, err
	}
	return PBKDF2Options{Hmac: hmac, Iterations: iterations, KeyLength: keyLength}, nil
}

// PBKDF2Instance resolves a [PBKDF2Function] from configuration.
func (fd *Finder) PBKDF2Instance() (*PBKDF2Function, error) {
	opts, err := fd.pbkdf2Options()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("pbkdf2/%s/%d/%d", opts.Hmac, opts.Iterations, opts.KeyLength)
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewPBKDF2Function(opts)
	})
	if err != nil {
		return nil, err
	}
	return f.(*PBKDF2Function), nil
}

// CompressedPBKDF2Instance resolves a [CompressedPBKDF2Function] from
// configuration.  It shares the hash.pbkdf2.* properties with
// [Finder.PBKDF2Instance].
func (fd *Finder) CompressedPBKDF2Instance() (*CompressedPBKDF2Function, error) {
	opts, err := fd.pbkdf2Options()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("compressed-pbkdf2/%s/%d/%d", opts.Hmac, opts.Iterations, opts.KeyLength)
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewCompressedPBKDF2Function(opts)
	})
	if err != nil {
		return nil, err
	}
	return f.(*CompressedPBKDF2Function), nil
}

// Argon2Instance resolves an [Argon2Function] from configuration.
func (fd *Finder) Argon2Instance() (*Argon2Function, error) {
	variant := Argon2Variant(strings.ToLower(lookupString(fd.source, PropertyArgon2Variant, string(Argon2id))))
	if variant != Argon2i && variant != Argon2id {
		return nil, fmt.Errorf("%w: property %s=%q names an unknown argon2 variant",
			ErrConfiguration, PropertyArgon2Variant, string(variant))
	}
	memory, err := lookupInt(fd.source, PropertyArgon2Memory, int(DefaultArgon2Memory))
	if err != nil {
		return nil, err
	}
	iterations, err := lookupInt(fd.source, PropertyArgon2Iterations, int(DefaultArgon2Iterations))
	if err != nil {
		return nil, err
	}
	parallelism, err := lookupInt(fd.source, PropertyArgon2Parallelism, int(DefaultArgon2Parallelism))
	if err != nil {
		return nil, err
	}
	keyLength, err := lookupInt(fd.source, PropertyArgon2KeyLength, int(DefaultArgon2KeyLength))
	if err != nil {
		return nil, err
	}
	if memory < 0 || iterations < 0 || parallelism < 1 || parallelism > 255 || keyLength < 0 {
		return nil, fmt.Errorf("%w: argon2 properties decode to m=%d, t=%d, p=%d, length=%d",
			ErrConfiguration, memory, iterations, parallelism, keyLength)
	}
	opts := Argon2Options{
		Variant:     variant,
		Memory:      uint32(memory),
		Iterations:  uint32(iterations),
		Parallelism: uint8(parallelism),
		KeyLength:   uint32(keyLength),
	}
	key := fmt.Sprintf("argon2/%s/%d/%d/%d/%d", variant, memory, iterations, parallelism, keyLength)
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewArgon2Function(opts)
	})
	if err != nil {
		return nil, err
	}
	return f.(*Argon2Function), nil
}

// MessageDigestInstance resolves a [MessageDigestFunction] from configuration.
func (fd *Finder) MessageDigestInstance() (*MessageDigestFunction, error) {
	digest := lookupString(fd.source, PropertyMDAlgorithm, DefaultMDDigest)
	saltOption := SaltAppend
	switch raw := strings.ToLower(lookupString(fd.source, PropertyMDSaltOption, "append")); raw {
	case "append":
		saltOption = SaltAppend
	case "prepend":
		saltOption = SaltPrepend
	default:
		return nil, fmt.Errorf("%w: property %s=%q must be append or prepend",
			ErrConfiguration, PropertyMDSaltOption, raw)
	}
	key := fmt.Sprintf("md/%s/%d", strings.ToLower(digest), int(saltOption))
	f, err := fd.resolve(key, func() (HashingFunction, error) {
		return NewMessageDigestFunction(MessageDigestOptions{Digest: digest, SaltOption: saltOption})
	})
	if err != nil {
		return nil, err
	}
	return f.(*MessageDigestFunction), nil
}

// Instance resolves a [HashingFunction] for the named family.
// Returns [ErrConfiguration] for an unknown identifier.
func (fd *Finder) Instance(alg Algorithm) (HashingFunction, error) {
	switch alg {
	case AlgorithmBCrypt:
		return fd.BCryptInstance()
	case AlgorithmSCrypt:
		return fd.SCryptInstance()
	case AlgorithmPBKDF2:
		return fd.PBKDF2Instance()
	case AlgorithmCompressedPBKDF2:
		return fd.CompressedPBKDF2Instance()
	case AlgorithmArgon2:
		return fd.Argon2Instance()
	case AlgorithmMessageDigest:
		return fd.MessageDigestInstance()
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrConfiguration, string(alg))
	}
}

// Default resolves the process-wide default function, named by the
// global.default.function property.  Falls back to argon2 when the property
// is absent.
func (fd *Finder) Default() (HashingFunction, error) {
	name := lookupString(fd.source, PropertyDefaultFunction, string(AlgorithmArgon2))
	return fd.Instance(Algorithm(strings.ToLower(name)))
}

// resolve returns the cached instance for key, constructing and caching it
// on first use.  A construction failure is not cached; configuration
// problems surface on every resolution attempt until fixed.
func (fd *Finder) resolve(key string, construct func() (HashingFunction, error)) (HashingFunction, error) {
	fd.mu.RLock()
	f, ok := fd.cache[key]
	fd.mu.RUnlock()
	if ok {
		return f, nil
	}

	f, err := construct()
	if err != nil {
		// A constructor rejecting property-sourced values is a
		// configuration problem, not a caller parameter problem.
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()
	if cached, ok := fd.cache[key]; ok {
		return cached, nil
	}
	fd.cache[key] = f
	return f, nil
}
