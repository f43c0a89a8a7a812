package password_test

import (
	"fmt"
	"log"

	"github.com/hasbyte1/go-password/password"
)

// Example_hashAndCheck demonstrates the recommended out-of-the-box flow:
// derive with an explicit function, verify with the same family.
func Example_hashAndCheck() {
	f, err := password.NewSCryptFunction(password.SCryptOptions{
		WorkFactor:      16384,
		Resources:       8,
		Parallelization: 1,
	})
	if err != nil {
		log.Fatal(err)
	}

	hash, err := password.NewHashBuilder("Sup3rSecr4t!").With(f)
	if err != nil {
		log.Fatal(err)
	}

	ok, err := password.NewHashChecker("Sup3rSecr4t!", hash.Result()).With(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ok)
	// Output: true
}

// Example_fixedSalt shows that a caller-supplied salt makes the derivation
// reproducible, including the encoded artifact.
func Example_fixedSalt() {
	f, err := password.NewSCryptFunction(password.SCryptOptions{
		WorkFactor:      16384,
		Resources:       8,
		Parallelization: 1,
	})
	if err != nil {
		log.Fatal(err)
	}

	salt := []byte("0123456789abcdef")
	hash, err := password.NewHashBuilder("Sup3rSecr4t!").AddSalt(salt).With(f)
	if err != nil {
		log.Fatal(err)
	}
	again, _ := password.NewHashBuilder("Sup3rSecr4t!").AddSalt(salt).With(f)

	fmt.Println(hash.Result() == again.Result())
	// Output: true
}

// Example_pepper demonstrates the pepper composition: the same secret must be
// supplied at hash time and at check time, and never appears in the artifact.
func Example_pepper() {
	f, err := password.NewArgon2Function(password.Argon2Options{
		Variant:     password.Argon2id,
		Memory:      8,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   16,
	})
	if err != nil {
		log.Fatal(err)
	}

	hash, err := password.NewHashBuilder("Sup3rSecr4t!").
		AddPepperValue("app-wide-secret").
		With(f)
	if err != nil {
		log.Fatal(err)
	}

	withPepper, _ := password.NewHashChecker("Sup3rSecr4t!", hash.Result()).
		AddPepperValue("app-wide-secret").
		With(f)
	withoutPepper, _ := password.NewHashChecker("Sup3rSecr4t!", hash.Result()).
		With(f)

	fmt.Println(withPepper, withoutPepper)
	// Output: true false
}

// Example_migration upgrades a stored artifact to a stronger function in one
// step: verify under the old parameters, re-derive under the new ones.
func Example_migration() {
	old, err := password.NewSCryptFunction(password.SCryptOptions{
		WorkFactor:      16384,
		Resources:       8,
		Parallelization: 1,
	})
	if err != nil {
		log.Fatal(err)
	}
	next, err := password.NewArgon2Function(password.Argon2Options{
		Variant:     password.Argon2id,
		Memory:      8,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   16,
	})
	if err != nil {
		log.Fatal(err)
	}

	stored, _ := password.NewHashBuilder("Sup3rSecr4t!").With(old)

	update, err := password.NewHashChecker("Sup3rSecr4t!", stored.Result()).
		AndUpdate().
		With(old, next)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(update.Verified(), update.Hash().Function().Algorithm())
	// Output: true argon2
}

// Example_detectAlgorithm routes verification by artifact prefix, useful when
// a user table holds hashes from more than one era.
func Example_detectAlgorithm() {
	for _, artifact := range []string{
		"$argon2id$v=19$m=8,t=1,p=1$c2FsdHNhbHQ$y9RRXxqRzJW0o8Xk1G4V0A",
		"$s0$e0801$c2FsdHNhbHRzYWx0c2FsdA$dGVzdA",
		"$2a$10$N9qo8uLOickgx2ZMRZoMye",
	} {
		alg, _ := password.DetectAlgorithm(artifact)
		fmt.Println(alg)
	}
	// Output:
	// argon2
	// scrypt
	// bcrypt
}
