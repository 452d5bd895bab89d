// Package shortid generates random alphanumeric short codes.
package shortid

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random code of the given length over [A-Za-z0-9].
func Generate(length int) string {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, _ := rand.Int(rand.Reader, max)
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
