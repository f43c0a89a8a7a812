package password

// Hash is the immutable result of a successful derivation: the encoded
// self-describing artifact, the raw salt that went into it (nil for
// algorithms that manage salt internally or take none), and a reference to
// the producing [HashingFunction].
//
// A Hash is only ever constructed as the output of a successful derivation;
// no partial Hash is returned on failure.  The pepper, if one was applied,
// is deliberately not retained.
type Hash struct {
	function HashingFunction
	result   string
	salt     []byte
}

func newHash(function HashingFunction, result string, salt []byte) Hash {
	var s []byte
	if salt != nil {
		s = make([]byte, len(salt))
		copy(s, salt)
	}
	return Hash{function: function, result: result, salt: s}
}

// Result returns the encoded artifact as a string.  This is the value to
// persist and later feed back into a checker.
func (h Hash) Result() string { return h.result }

// Bytes returns the encoded artifact as a byte slice.
func (h Hash) Bytes() []byte { return []byte(h.result) }

// Salt returns a copy of the raw salt used for the derivation, or nil when
// the algorithm generated and stored the salt internally (bcrypt) or used
// none (unsalted message digest).
func (h Hash) Salt() []byte {
	if h.salt == nil {
		return nil
	}
	s := make([]byte, len(h.salt))
	copy(s, h.salt)
	return s
}

// Function returns the [HashingFunction] that produced this hash.
func (h Hash) Function() HashingFunction { return h.function }

// String returns the encoded artifact.  Artifacts never contain the
// plaintext or the pepper, so printing a Hash is safe.
func (h Hash) String() string { return h.result }
