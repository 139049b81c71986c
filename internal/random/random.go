// Package random provides the injectable sample source behind every
// simulated factor, forecast noise term and cosmetic figure.
package random

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces the next sample from a distribution.
type Sampler interface {
	Normal(mean, stddev float64) float64
	Uniform(min, max float64) float64
}

// Distribution draws from gonum distributions. The zero seed uses the
// runtime's entropy-seeded global source, which is safe for concurrent use.
// A non-zero seed uses a PCG source guarded by a mutex, giving reproducible
// sequences across process runs.
type Distribution struct {
	mu  sync.Mutex
	src rand.Source
}

// NewDistribution returns a Distribution seeded with seed (0 = entropy).
func NewDistribution(seed uint64) *Distribution {
	d := &Distribution{}
	if seed != 0 {
		d.src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
	return d
}

func (d *Distribution) Normal(mean, stddev float64) float64 {
	if d.src == nil {
		return distuv.Normal{Mu: mean, Sigma: stddev}.Rand()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return distuv.Normal{Mu: mean, Sigma: stddev, Src: d.src}.Rand()
}

func (d *Distribution) Uniform(min, max float64) float64 {
	if d.src == nil {
		return distuv.Uniform{Min: min, Max: max}.Rand()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return distuv.Uniform{Min: min, Max: max, Src: d.src}.Rand()
}

// Centered is a deterministic Sampler returning the mean of a normal
// distribution and the midpoint of a uniform one.
type Centered struct{}

func (Centered) Normal(mean, _ float64) float64 { return mean }

func (Centered) Uniform(min, max float64) float64 { return (min + max) / 2 }

// Sequence replays scripted samples in draw order regardless of the requested
// distribution, then behaves like Centered once the script is exhausted.
// Not safe for concurrent use.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a Sequence that replays values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: append([]float64(nil), values...)}
}

func (s *Sequence) Normal(mean, stddev float64) float64 {
	if v, ok := s.pop(); ok {
		return v
	}
	return Centered{}.Normal(mean, stddev)
}

func (s *Sequence) Uniform(min, max float64) float64 {
	if v, ok := s.pop(); ok {
		return v
	}
	return Centered{}.Uniform(min, max)
}

// Remaining returns the number of scripted samples not yet consumed.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.next
}

func (s *Sequence) pop() (float64, bool) {
	if s.next >= len(s.values) {
		return 0, false
	}
	v := s.values[s.next]
	s.next++
	return v, true
}
