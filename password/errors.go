package password

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	ok, err := checker.With(fn)
//	if errors.Is(err, password.ErrMalformedHash) {
//	    // the stored artifact is corrupt — distinct from "password incorrect"
//	}
//
// A plaintext mismatch during verification is never an error: it is a plain
// (false, nil) result, indistinguishable in timing from a match.
var (
	// ErrInvalidParameters is returned when a constructor or a hashing
	// operation receives algorithm parameters outside the valid domain
	// (e.g., a non-power-of-two scrypt work factor, a zero iteration count,
	// or a salt shorter than the algorithm allows).  Parameters are never
	// silently clamped.
	ErrInvalidParameters = errors.New("password: invalid algorithm parameters")

	// ErrMalformedHash is returned when an encoded hash artifact cannot be
	// parsed into its constituent fields: wrong prefix, wrong segment count,
	// or a non-decodable segment.  Verification never proceeds on
	// partially-parsed data.
	ErrMalformedHash = errors.New("password: malformed hash artifact")

	// ErrConfiguration is returned by the [Finder] when the property source
	// names an unknown algorithm or supplies a default parameter that cannot
	// be parsed.  It is raised at resolution time, not deferred to the first
	// hash operation.
	ErrConfiguration = errors.New("password: invalid configuration")

	// ErrAlgorithmMismatch is returned when an artifact was clearly produced
	// by a different algorithm than the one asked to verify it (e.g., an
	// argon2 string handed to the bcrypt function).
	ErrAlgorithmMismatch = errors.New("password: hash was produced by a different algorithm")
)
