// Package password provides a pluggable password-hashing facade: one
// contract over bcrypt, scrypt, PBKDF2, Argon2, and plain message digests,
// with self-describing artifacts and a fluent create / verify / migrate
// chain.
//
// # Architecture
//
// The central abstraction is the [HashingFunction] interface.  Six
// implementations ship with this package:
//
//   - [BCryptFunction] — bcrypt (widest ecosystem support; manages its own salt)
//   - [SCryptFunction] — scrypt with the $s0$ packed-parameter format
//   - [PBKDF2Function] — PBKDF2 with out-of-band salt
//   - [CompressedPBKDF2Function] — PBKDF2 with a self-describing artifact
//   - [Argon2Function] — Argon2i/Argon2id in PHC string format (recommended)
//   - [MessageDigestFunction] — unkeyed digests, for legacy verification only
//
// All implement [HashingFunction], so callers can depend on the interface
// rather than a concrete type — the strategy pattern.  Every artifact that
// can be self-describing is: algorithm identity, cost parameters, and salt
// round-trip from the encoded string alone.
//
// The [Finder] resolves a family name into a ready-to-use function,
// applying explicit parameters over property-sourced values over hardcoded
// safe defaults, and caches the result per parameter set.
//
// # Quick start
//
//	hash, err := password.HashPassword("my-secret").WithArgon2()
//	if err != nil { log.Fatal(err) }
//
//	ok, _ := password.CheckPassword("my-secret", hash.Result()).WithArgon2()
//
// # Salt and pepper
//
// Salts are random, per-hash, and travel inside the artifact wherever the
// format allows.  A pepper is a process-wide secret concatenated before the
// plaintext (pepper+password); it is never encoded into artifacts and never
// appears in error messages.  Configure it through the global.pepper
// property and apply it with AddPepper on either side of the flow.
//
// # Migration
//
// [HashChecker.AndUpdate] turns a successful verification into a fresh hash
// under a new function, reusing the salt and pepper from the check:
//
//	upd, err := password.NewHashChecker(pwd, stored).
//	        AndUpdate().
//	        With(oldFn, newFn)
//	if err == nil && upd.Verified() {
//	    persist(upd.Hash().Result())
//	}
//
// # Resource model
//
// Derivations are synchronous, CPU/memory-bound, and intentionally slow;
// the memory-hard functions allocate tens of megabytes per call.  The
// library performs no admission control of its own —
// [HashingFunction.RequiredMemoryBytes] is the capacity signal for callers
// that need to gate concurrency.
//
// # Errors
//
// Mismatched passwords are a (false, nil) result, timed identically to a
// match.  Errors always mean misconfiguration or corrupted input:
// [ErrInvalidParameters], [ErrMalformedHash], [ErrConfiguration].
package password
