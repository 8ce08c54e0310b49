package practice

import "math/rand"

// Rand is the randomness Shuffle draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// Shuffle returns a shuffled copy of items, leaving items untouched.
// A nil rnd uses the math/rand global source.
func Shuffle[T any](items []T, rnd Rand) []T {
	if rnd == nil {
		rnd = globalRand{}
	}
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
