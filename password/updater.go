package password

// HashUpdate is the outcome of a verify-then-rehash operation.
type HashUpdate struct {
	hash     Hash
	verified bool
}

// Verified reports whether the plaintext matched the original artifact.
// When false, no new hash was produced.
func (u HashUpdate) Verified() bool { return u.verified }

// Hash returns the freshly derived artifact.  Only meaningful when
// [HashUpdate.Verified] is true.
func (u HashUpdate) Hash() Hash { return u.hash }

// HashUpdater chains a verification with a re-derivation under a new
// function or parameter set — the designed migration path between CHFs.
//
// The updater is created by [HashChecker.AndUpdate] and inherits the
// checker's plaintext, salt, and pepper; AddNew* methods override them for
// the new hash only, leaving the verification side untouched.
//
// Updaters are single-use request objects and are NOT safe for concurrent
// use.
type HashUpdater struct {
	checker *HashChecker
	builder *HashBuilder
}

// AddNewSalt sets the salt for the new hash, replacing the carried-over one.
func (u *HashUpdater) AddNewSalt(salt []byte) *HashUpdater {
	u.builder.AddSalt(salt)
	return u
}

// AddNewRandomSalt requests a fresh random salt of the given length for the
// new hash.
func (u *HashUpdater) AddNewRandomSalt(length int) *HashUpdater {
	u.builder.AddRandomSalt(length)
	return u
}

// AddNewPepperValue sets the pepper for the new hash, replacing the
// carried-over one.
func (u *HashUpdater) AddNewPepperValue(pepper string) *HashUpdater {
	u.builder.AddPepperValue(pepper)
	return u
}

// AddNewPepper applies the process-wide configured pepper to the new hash.
func (u *HashUpdater) AddNewPepper() *HashUpdater {
	u.builder.AddPepper()
	return u
}

// With verifies the original artifact with oldFunction and, on success,
// derives a new artifact with newFunction.  A failed verification returns
// an unverified [HashUpdate] and no error; errors are reserved for
// malformed artifacts and invalid parameters.
func (u *HashUpdater) With(oldFunction, newFunction HashingFunction) (HashUpdate, error) {
	ok, err := u.checker.With(oldFunction)
	if err != nil || !ok {
		return HashUpdate{}, err
	}
	h, err := u.builder.With(newFunction)
	if err != nil {
		return HashUpdate{}, err
	}
	return HashUpdate{hash: h, verified: true}, nil
}

// WithBCrypt verifies and re-derives with the finder-resolved bcrypt
// function on both sides.  Useful for pure parameter upgrades within one
// family.
func (u *HashUpdater) WithBCrypt() (HashUpdate, error) {
	f, err := u.checker.resolveFinder().BCryptInstance()
	if err != nil {
		return HashUpdate{}, err
	}
	return u.With(f, f)
}

// WithSCrypt verifies and re-derives with the finder-resolved scrypt
// function on both sides.
func (u *HashUpdater) WithSCrypt() (HashUpdate, error) {
	f, err := u.checker.resolveFinder().SCryptInstance()
	if err != nil {
		return HashUpdate{}, err
	}
	return u.With(f, f)
}

// WithPBKDF2 verifies and re-derives with the finder-resolved PBKDF2
// function on both sides.
func (u *HashUpdater) WithPBKDF2() (HashUpdate, error) {
	f, err := u.checker.resolveFinder().PBKDF2Instance()
	if err != nil {
		return HashUpdate{}, err
	}
	return u.With(f, f)
}

// WithCompressedPBKDF2 verifies and re-derives with the finder-resolved
// compressed PBKDF2 function on both sides.
func (u *HashUpdater) WithCompressedPBKDF2() (HashUpdate, error) {
	f, err := u.checker.resolveFinder().CompressedPBKDF2Instance()
	if err != nil {
		return HashUpdate{}, err
	}
	return u.With(f, f)
}

// WithArgon2 verifies and re-derives with the finder-resolved argon2
// function on both sides.
func (u *HashUpdater) WithArgon2() (HashUpdate, error) {
	f, err := u.checker.resolveFinder().Argon2Instance()
	if err != nil {
		return HashUpdate{}, err
	}
	return u.With(f, f)
}
