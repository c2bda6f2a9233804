// Package tokenize extracts signed base-10 integers from unstructured text.
//
// Digits and the sign characters '+' and '-' form token runs; every other byte
// (spaces, commas, newlines, letters, punctuation) separates tokens. A run is
// well formed when it is one optional leading sign followed by at least one
// digit. Anything else, such as a lone "-", "--5" or "5-3", is malformed and is
// handled according to [MalformedPolicy].
//
// Values are int64. Tokens outside that range are handled according to
// [OverflowPolicy].
//
//	vals, err := tokenize.Tokenize("3, -1\n+4 x 1", tokenize.Options{})
//	// vals == []int64{3, -1, 4, 1}
//
// Tokenizing is a pure function of its input and is safe for concurrent use.
package tokenize
