package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBCryptRounds is the recommended bcrypt work factor.
	// At cost 12, hashing takes approximately 250 ms on a modern server CPU,
	// which satisfies OWASP ASVS Level 1 (≥ 10) and Level 2 (≥ 12).
	//
	// Increase this value as hardware improves; aim to keep hashing time
	// between 100 ms and 500 ms for your deployment environment.
	DefaultBCryptRounds = 12

	// bcryptMemoryBytes is the working memory of one bcrypt derivation:
	// the expanded Blowfish key schedule (18 P-words + 4 S-boxes of 256
	// 32-bit words).  Unlike scrypt/argon2, the cost parameter does not
	// change the memory footprint.
	bcryptMemoryBytes = (18 + 4*256) * 4
)

// BCryptOptions configures a [BCryptFunction].
type BCryptOptions struct {
	// Rounds is the bcrypt work factor (logarithmic).
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	// Default: [DefaultBCryptRounds].
	Rounds int
}

// DefaultBCryptOptions returns BCryptOptions with [DefaultBCryptRounds].
func DefaultBCryptOptions() BCryptOptions {
	return BCryptOptions{Rounds: DefaultBCryptRounds}
}

// BCryptFunction hashes passwords using the bcrypt algorithm.
//
// Bcrypt internally generates and embeds a 128-bit random salt in the
// Modular Crypt Format artifact ("$2a$12$..."), so callers never manage
// salts for this function — [BCryptFunction.HashWithSalt] is rejected
// rather than silently ignoring the supplied salt.
//
// Security note: bcrypt truncates inputs longer than 72 bytes.  Long
// passwords combined with a long pepper can cross that limit; prefer
// [SCryptFunction] or [Argon2Function] in that case.
//
// # Thread safety
//
// BCryptFunction is immutable after construction and safe for concurrent use.
type BCryptFunction struct {
	rounds int
}

// NewBCryptFunction constructs a BCryptFunction with the provided options.
// Returns [ErrInvalidParameters] if Rounds is outside [bcrypt.MinCost, bcrypt.MaxCost].
func NewBCryptFunction(opts BCryptOptions) (*BCryptFunction, error) {
	if opts.Rounds < bcrypt.MinCost || opts.Rounds > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt rounds %d must be in [%d, %d]",
			ErrInvalidParameters, opts.Rounds, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BCryptFunction{rounds: opts.Rounds}, nil
}

// Algorithm returns [AlgorithmBCrypt].
func (f *BCryptFunction) Algorithm() Algorithm { return AlgorithmBCrypt }

// Rounds returns the configured work factor.
func (f *BCryptFunction) Rounds() int { return f.rounds }

// RequiredMemoryBytes returns the fixed ~4 KiB Blowfish state size.
func (f *BCryptFunction) RequiredMemoryBytes() int64 { return bcryptMemoryBytes }

// Hash derives plain with bcrypt.  A fresh 128-bit salt is generated and
// embedded by the algorithm itself, so [Hash.Salt] is nil.
func (f *BCryptFunction) Hash(plain string) (Hash, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), f.rounds)
	if err != nil {
		return Hash{}, fmt.Errorf("password: bcrypt derivation failed: %w", err)
	}
	return newHash(f, string(hashed), nil), nil
}

// HashWithSalt returns [ErrInvalidParameters]: bcrypt owns its salt and the
// x/crypto implementation offers no way to inject one.  Accepting and
// discarding the caller's salt would break the salt-determinism contract.
func (f *BCryptFunction) HashWithSalt(string, []byte) (Hash, error) {
	return Hash{}, fmt.Errorf("%w: bcrypt generates and embeds its own salt", ErrInvalidParameters)
}

// Check verifies plain against a bcrypt artifact.  The cost and salt are
// read from the artifact; a mismatch is (false, nil).
func (f *BCryptFunction) Check(plain, hashed string) (bool, error) {
	if alg, ok := DetectAlgorithm(hashed); !ok || alg != AlgorithmBCrypt {
		if ok {
			return false, fmt.Errorf("%w: %w: artifact was produced by %s", ErrMalformedHash, ErrAlgorithmMismatch, alg)
		}
		return false, fmt.Errorf("%w: artifact does not carry a bcrypt prefix", ErrMalformedHash)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return true, nil
}

// CheckWithSalt behaves exactly like Check: the artifact embeds its salt.
func (f *BCryptFunction) CheckWithSalt(plain, hashed string, _ []byte) (bool, error) {
	return f.Check(plain, hashed)
}
