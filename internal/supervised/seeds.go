package supervised

import "math/rand"

// DeriveSeeds returns n per-class seeds drawn in order from a generator
// seeded with master. The same master and n always give the same seeds, and
// the first k seeds do not depend on n.
func DeriveSeeds(master int64, n int) []int64 {
	rng := rand.New(rand.NewSource(master))
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}
