// Package voucher generates opaque proof-of-payment codes.
package voucher

import (
	"crypto/rand"
	"fmt"
)

// No 0/O/1/I to keep codes unambiguous when read back by support staff.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLen = 10

// Generate returns a random voucher code. Codes are drawn from
// crypto/rand so they are not predictable from booking ids; uniqueness
// is enforced by the database index, callers retry on collision.
func Generate() (string, error) {
	buf := make([]byte, codeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("voucher: %w", err)
	}
	out := make([]byte, codeLen)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
