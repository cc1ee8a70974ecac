package tests

import (
	"flea_market/pkg/randx"
)

// Randomizer is a scripted randx.Source. Nil funcs fall back to the lower
// bound of the requested range and to "false" for rolls.
type Randomizer struct {
	IntFunc       func(lo, hi int) int
	FloatFunc     func(lo, hi float64) float64
	Chance100Func func(percent float64) bool
	BoolFunc      func() bool
	IndexFunc     func(n int) int
}

var _ randx.Source = Randomizer{}

func NewRandomizer() Randomizer {
	return Randomizer{}
}

// AlwaysMax returns a source that picks upper bounds and wins every roll.
func AlwaysMax() Randomizer {
	return Randomizer{
		IntFunc:       func(_, hi int) int { return hi },
		FloatFunc:     func(_, hi float64) float64 { return hi },
		Chance100Func: func(p float64) bool { return p > 0 },
		BoolFunc:      func() bool { return true },
		IndexFunc:     func(n int) int { return max(n-1, 0) },
	}
}

func (r Randomizer) Int(lo, hi int) int {
	if r.IntFunc != nil {
		return r.IntFunc(lo, hi)
	}

	return lo
}

func (r Randomizer) Float(lo, hi float64) float64 {
	if r.FloatFunc != nil {
		return r.FloatFunc(lo, hi)
	}

	return lo
}

func (r Randomizer) Chance100(percent float64) bool {
	if r.Chance100Func != nil {
		return r.Chance100Func(percent)
	}

	return false
}

func (r Randomizer) Bool() bool {
	if r.BoolFunc != nil {
		return r.BoolFunc()
	}

	return false
}

func (r Randomizer) Index(n int) int {
	if r.IndexFunc != nil {
		return r.IndexFunc(n)
	}

	return 0
}
