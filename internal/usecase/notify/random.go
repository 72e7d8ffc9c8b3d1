package notify

import "math/rand/v2"

// Rand отдаёт случайные числа. *rand.Rand из math/rand/v2 подходит напрямую.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// RandomIntInclusive возвращает равномерно распределённое целое из [min, max].
// Если max < min, возвращается min.
func RandomIntInclusive(rng Rand, min, max int) int {
	if max < min {
		return min
	}
	return rng.IntN(max-min+1) + min
}
