// Package idgen generates short hash-based IDs for issues.
package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Prefix is the project prefix carried by every issue ID.
const Prefix = "sib"

// idLength is the number of base36 characters after the prefix. Four bytes
// of hash give 32 bits, comfortably more than six base36 digits encode.
const idLength = 6

// New derives an issue ID from the issue's content plus a nonce. The nonce
// lets the store retry on the (rare) short-hash collision.
func New(title, creator string, at time.Time, nonce int) string {
	content := fmt.Sprintf("%s|%s|%d|%d", title, creator, at.UnixNano(), nonce)
	sum := sha256.Sum256([]byte(content))
	return Prefix + "-" + encodeBase36(sum[:4], idLength)
}

// encodeBase36 converts a byte slice to a base36 string of the given length,
// zero-padded on the left and truncated to the least significant digits.
func encodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	var b strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		b.WriteByte(chars[i])
	}

	s := b.String()
	if len(s) < length {
		s = strings.Repeat("0", length-len(s)) + s
	}
	if len(s) > length {
		s = s[len(s)-length:]
	}
	return s
}
