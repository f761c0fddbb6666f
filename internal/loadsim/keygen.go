package loadsim

import (
	"math/rand"
	"time"
)

// KeyGenerator produces random keys of uppercase ASCII letters.
// It is not safe for concurrent use.
type KeyGenerator struct {
	rng    *rand.Rand
	length int
}

// NewKeyGenerator returns a generator of keys with the given length. A zero
// seed seeds from the clock.
func NewKeyGenerator(length int, seed int64) *KeyGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &KeyGenerator{
		rng:    rand.New(rand.NewSource(seed)),
		length: length,
	}
}

// Next returns a new random key.
func (g *KeyGenerator) Next() string {
	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = byte('A' + g.rng.Intn(26))
	}
	return string(buf)
}

// Keys returns n random keys.
func (g *KeyGenerator) Keys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = g.Next()
	}
	return keys
}
