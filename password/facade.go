package password

// HashPassword starts a hash-creation chain for the given plaintext.
// It is the conventional entry point of the package:
//
//	hash, err := password.HashPassword("Sup3rSecr4t!").AddPepper().WithArgon2()
//
// Equivalent to [NewHashBuilder].
func HashPassword(plain string) *HashBuilder {
	return NewHashBuilder(plain)
}

// CheckPassword starts a verification chain for the given plaintext and
// stored artifact:
//
//	ok, err := password.CheckPassword("Sup3rSecr4t!", stored).WithArgon2()
//
// Equivalent to [NewHashChecker].
func CheckPassword(plain, hashed string) *HashChecker {
	return NewHashChecker(plain, hashed)
}
