package seeder

import (
	"crypto/rand"
	"math/big"
)

// randFloatDivisor fixes the resolution of generated floats.
const randFloatDivisor = 1000000

// randFloat returns a uniform float64 in [0, 1).
func randFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randFloatDivisor))
	return float64(n.Int64()) / float64(randFloatDivisor)
}

// randInt returns a uniform int64 in [0, n). Non-positive n yields zero.
func randInt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// jitter returns a uniform offset in [-r, r].
func jitter(r float64) float64 {
	return (randFloat()*2 - 1) * r
}
