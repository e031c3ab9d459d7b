// utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns a short random suffix for transaction numbers.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(randomCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b[i] = randomCharset[n.Int64()]
	}
	return string(b)
}
