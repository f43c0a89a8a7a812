package password

import (
	"crypto/rand"
	"fmt"
	"io"
)

// DefaultSaltLength is the number of random salt bytes generated when the
// caller does not ask for a specific length.  16 bytes (128 bits) meets the
// NIST SP 800-132 minimum and is the conventional size for argon2/scrypt
// artifacts.
const DefaultSaltLength = 16

// GenerateSalt returns length cryptographically random bytes read from the
// operating system's CSPRNG.
//
// Returns [ErrInvalidParameters] if length is not positive.
func GenerateSalt(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: salt length must be positive, got %d", ErrInvalidParameters, length)
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("password: failed to generate salt: %w", err)
	}
	return b, nil
}
