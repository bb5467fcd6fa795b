package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides the randomness used for ids and seat assignment, mockable for tests
type Random interface {
	// Bool returns true or false with equal probability
	Bool() bool

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Bool flips a fair coin
func (r *CryptoRandom) Bool() bool {
	return r.intn(2) == 1
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.intn(len(alphabet))]
	}
	return string(result)
}

// intn returns a uniformly distributed int in [0, n)
func (r *CryptoRandom) intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms
		panic("random: crypto/rand unavailable: " + err.Error())
	}
	return int(result.Int64())
}
