package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Property keys understood by the [Finder].  The dotted names mirror the
// layout of a conventional properties file; [EnvSource] maps them onto
// environment variables.
const (
	// PropertyPepper is the process-wide pepper applied by AddPepper().
	PropertyPepper = "global.pepper"
	// PropertyDefaultFunction names the CHF family returned by [Finder.Default].
	PropertyDefaultFunction = "global.default.function"

	PropertyBCryptRounds = "hash.bcrypt.rounds"

	PropertySCryptWorkFactor      = "hash.scrypt.workfactor"
	PropertySCryptResources       = "hash.scrypt.resources"
	PropertySCryptParallelization = "hash.scrypt.parallelization"

	PropertyPBKDF2Algorithm  = "hash.pbkdf2.algorithm"
	PropertyPBKDF2Iterations = "hash.pbkdf2.iterations"
	PropertyPBKDF2KeyLength  = "hash.pbkdf2.length"

	PropertyArgon2Memory      = "hash.argon2.memory"
	PropertyArgon2Iterations  = "hash.argon2.iterations"
	PropertyArgon2KeyLength   = "hash.argon2.length"
	PropertyArgon2Parallelism = "hash.argon2.parallelism"
	PropertyArgon2Variant     = "hash.argon2.type"

	PropertyMDAlgorithm  = "hash.md.algorithm"
	PropertyMDSaltOption = "hash.md.salt.option"
)

// PropertySource supplies process-wide configuration to a [Finder]:
// "get configured value for key X, or fall back to the built-in default".
//
// Implementations must be safe for concurrent use.  The two implementations
// shipped with this package are [EnvSource] (environment variables, the
// production default) and [MapSource] (a plain map, handy in tests).
type PropertySource interface {
	// Lookup returns the configured value for the dotted key, and whether
	// the key was present at all.  Presence with an unparsable value is an
	// [ErrConfiguration] at resolution time, never a silent fallback.
	Lookup(key string) (string, bool)
}

// EnvSource reads properties from environment variables.  A dotted key is
// upper-cased and its separators replaced with underscores, then prefixed:
//
//	global.pepper          → PASSWORD_GLOBAL_PEPPER
//	hash.scrypt.workfactor → PASSWORD_HASH_SCRYPT_WORKFACTOR
type EnvSource struct {
	// Prefix is prepended (with an underscore) to every variable name.
	// Empty means the default "PASSWORD".
	Prefix string
}

// Lookup implements [PropertySource].
func (e EnvSource) Lookup(key string) (string, bool) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = "PASSWORD"
	}
	name := prefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return os.LookupEnv(name)
}

// MapSource is a [PropertySource] backed by a plain map.  Intended for tests
// and for callers that load configuration themselves at startup.
type MapSource map[string]string

// Lookup implements [PropertySource].
func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// lookupInt resolves an integer property, falling back to def when the key
// is absent.  A present but unparsable value is a configuration error.
func lookupInt(src PropertySource, key string, def int) (int, error) {
	raw, ok := src.Lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: property %s=%q is not an integer", ErrConfiguration, key, raw)
	}
	return v, nil
}

// lookupString resolves a string property with a default.
func lookupString(src PropertySource, key, def string) string {
	if raw, ok := src.Lookup(key); ok {
		return strings.TrimSpace(raw)
	}
	return def
}
