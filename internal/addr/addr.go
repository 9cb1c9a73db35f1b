// Package addr validates Solana account addresses.
package addr

import (
	"regexp"

	"github.com/mr-tron/base58"
)

// Base58 alphabet, 32 to 44 characters. The same shape gate the
// ingest parser applies to description tokens.
var addressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// MatchesShape reports whether s looks like a Solana address without
// decoding it.
func MatchesShape(s string) bool {
	return addressRe.MatchString(s)
}

// Valid reports whether s is a well-formed Solana address: base58
// alphabet, 32 to 44 characters, decoding to exactly 32 bytes.
func Valid(s string) bool {
	if !addressRe.MatchString(s) {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
