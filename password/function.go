package password

import "strings"

// Algorithm identifies a cryptographic hashing function (CHF) family.
// Using a named string type prevents accidental confusion with plain strings.
type Algorithm string

const (
	// AlgorithmBCrypt selects the bcrypt function.
	AlgorithmBCrypt Algorithm = "bcrypt"
	// AlgorithmSCrypt selects the scrypt function.
	AlgorithmSCrypt Algorithm = "scrypt"
	// AlgorithmPBKDF2 selects the PBKDF2 function (salt carried out-of-band).
	AlgorithmPBKDF2 Algorithm = "pbkdf2"
	// AlgorithmCompressedPBKDF2 selects the PBKDF2 function with the
	// self-describing compressed artifact format.
	AlgorithmCompressedPBKDF2 Algorithm = "compressed-pbkdf2"
	// AlgorithmArgon2 selects the Argon2 function (recommended for new systems).
	AlgorithmArgon2 Algorithm = "argon2"
	// AlgorithmMessageDigest selects the plain message-digest function.
	// Only suitable for legacy verification, never for new hashes.
	AlgorithmMessageDigest Algorithm = "message-digest"
)

// HashingFunction is the core contract satisfied by every CHF implementation.
//
// All implementations are immutable after construction and safe for concurrent
// use by multiple goroutines.  Each call is self-contained given its inputs:
// derivation is CPU/memory-bound and blocks the calling goroutine for its
// full duration, so request-serving callers should gate concurrency using
// [HashingFunction.RequiredMemoryBytes] as the admission signal.
type HashingFunction interface {
	// Hash derives plain with a fresh salt (where the algorithm takes one)
	// and returns the self-describing artifact wrapped in a [Hash].
	// Returns [ErrInvalidParameters] if the configured parameters fall
	// outside the algorithm's valid domain.
	Hash(plain string) (Hash, error)

	// HashWithSalt is Hash with a caller-supplied salt.  Returns
	// [ErrInvalidParameters] if the salt violates the algorithm's length
	// constraint, or if the algorithm manages its salt internally (bcrypt).
	HashWithSalt(plain string, salt []byte) (Hash, error)

	// Check verifies plain against a previously produced artifact, reading
	// parameters and salt back out of the artifact itself.  A mismatch is a
	// normal (false, nil) result; comparison is performed in constant time.
	// A structurally broken artifact yields (false, [ErrMalformedHash]).
	Check(plain, hashed string) (bool, error)

	// CheckWithSalt is Check for algorithms whose artifact does not embed
	// the salt (PBKDF2, MessageDigest).  Algorithms with self-describing
	// artifacts ignore the salt argument and behave exactly like Check.
	CheckWithSalt(plain, hashed string, salt []byte) (bool, error)

	// Algorithm returns the CHF family implemented by this function.
	Algorithm() Algorithm

	// RequiredMemoryBytes is an advisory estimate of the working memory one
	// derivation allocates.  Callers can use it for admission control before
	// committing to an expensive derivation; the library itself never gates.
	RequiredMemoryBytes() int64
}

// DetectAlgorithm inspects an encoded artifact and returns the [Algorithm]
// that produced it.  It is a best-effort heuristic based on the artifact
// prefix and does not verify the artifact itself.
//
// PBKDF2 (uncompressed) and message-digest artifacts carry no recognisable
// prefix, so they can never be detected; the second return value is false.
func DetectAlgorithm(hashed string) (Algorithm, bool) {
	switch {
	case strings.HasPrefix(hashed, "$argon2id$"),
		strings.HasPrefix(hashed, "$argon2i$"):
		return AlgorithmArgon2, true
	case strings.HasPrefix(hashed, "$s0$"):
		return AlgorithmSCrypt, true
	// bcrypt hashes start with $2a$, $2b$, or $2y$; very old stores may
	// still carry the $2$ and $2x$ revisions, which x/crypto/bcrypt parses
	case strings.HasPrefix(hashed, "$2a$"),
		strings.HasPrefix(hashed, "$2b$"),
		strings.HasPrefix(hashed, "$2y$"),
		strings.HasPrefix(hashed, "$2x$"),
		strings.HasPrefix(hashed, "$2$"):
		return AlgorithmBCrypt, true
	case looksLikeCompressedPBKDF2(hashed):
		return AlgorithmCompressedPBKDF2, true
	default:
		return "", false
	}
}
