// Package fingerprint computes stable content keys for function
// definitions and normalizes identifiers for comparison.
//
// Grounded on ffi/crypto.go's use of golang.org/x/crypto (there,
// bcrypt/scrypt for password hashing) and golang.org/x/text's
// unicode normalization (there, applied before hashing passwords);
// this package applies the same import family to a different
// problem: giving "the same function definition, possibly
// instantiated many times" (spec glossary, "Fingerprint") a
// fixed-width, collision-resistant key, and making identifier
// comparison insensitive to Unicode representation differences that
// would otherwise make the Name Resolver's output nondeterministic.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// Of hashes parts into one fixed-width key. The scope extractor calls
// it with a function's source text when the tracker reported no
// fingerprint, and with ("unreconstructable", name) for a function
// that has no tracker. Two calls with the same parts always produce
// the same fingerprint. The Scope Graph Builder does not read
// fingerprints: it keys Scope Nodes by frame, so each instantiation of
// a factory gets its own Scope Node and its own emitted factory.
func Of(parts ...string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key length, and we pass
		// no key; this is unreachable in practice.
		panic(err)
	}
	for _, p := range parts {
		normalized := norm.NFC.String(p)
		h.Write([]byte(normalized))
		h.Write([]byte{0}) // separator so ("ab","c") != ("a","bc")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeIdent returns the NFC-normalized form of an identifier, so
// that two source identifiers differing only in combining-character
// representation compare equal everywhere the resolver and builder
// compare names.
func NormalizeIdent(name string) string {
	return norm.NFC.String(name)
}
