// Package randx provides a goroutine safe random source with the helpers the
// marketplace generators need: inclusive ranges, percent rolls and weighted picks.
package randx

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

type Source interface {
	// Int returns a uniform integer in [lo, hi].
	Int(lo, hi int) int
	// Float returns a uniform float in [lo, hi).
	Float(lo, hi float64) float64
	// Chance100 reports true with the given percent probability.
	Chance100(percent float64) bool
	Bool() bool
	// Index returns a uniform index in [0, n).
	Index(n int) int
}

type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(seed uint64) *Rand {
	return &Rand{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // game randomness
	}
}

func NewFromTime() *Rand {
	return New(uint64(time.Now().UnixNano())) //nolint:gosec // skip
}

func (r *Rand) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return lo + r.rnd.IntN(hi-lo+1)
}

func (r *Rand) Float(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return lo + r.rnd.Float64()*(hi-lo)
}

func (r *Rand) Chance100(percent float64) bool {
	if percent <= 0 {
		return false
	}

	if percent >= 100 { //nolint:mnd // skip
		return true
	}

	return r.Float(0, 100) < percent //nolint:mnd // skip
}

func (r *Rand) Bool() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rnd.IntN(2) == 0 //nolint:mnd // skip
}

func (r *Rand) Index(n int) int {
	if n <= 1 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rnd.IntN(n)
}

// Weighted picks a key with probability proportional to its weight. Keys are
// walked in sorted order so that a seeded source is reproducible.
func Weighted[K cmp.Ordered](src Source, weights map[K]float64) (K, bool) {
	var zero K

	keys := make([]K, 0, len(weights))
	total := 0.0

	for k, w := range weights {
		if w <= 0 {
			continue
		}

		keys = append(keys, k)
		total += w
	}

	if len(keys) == 0 {
		return zero, false
	}

	slices.Sort(keys)

	roll := src.Float(0, total)

	for _, k := range keys {
		roll -= weights[k]
		if roll < 0 {
			return k, true
		}
	}

	return keys[len(keys)-1], true
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T

	if len(items) == 0 {
		return zero, false
	}

	return items[src.Index(len(items))], true
}

// Round rounds half away from zero, the way prices are rounded everywhere in
// the marketplace.
func Round(v float64) int {
	return int(math.Round(v))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100 //nolint:mnd // skip
}
