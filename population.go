package gbgp

import (
	"math"
	"sort"
)

// fitnessEpsilon is the floor added to every individual's weight during
// fitness-proportional sampling, so a population with zero (or negative,
// or unevaluated) fitness everywhere still samples uniformly instead of
// dividing by zero.
const fitnessEpsilon = 1e-6

// Population is an ordered collection of Individuals. Its order reflects
// insertion, not fitness; Ranking (and the operations built on it) is
// computed on demand.
type Population struct {
	individuals []*Individual
}

// NewPopulation returns an empty Population.
func NewPopulation() *Population {
	return &Population{}
}

// Add appends ind to the population.
func (p *Population) Add(ind *Individual) {
	p.individuals = append(p.individuals, ind)
}

// Size returns the number of individuals in the population.
func (p *Population) Size() int {
	return len(p.individuals)
}

// Individuals returns the population's members in insertion order. The
// returned slice is owned by the caller; it is a fresh copy of the
// population's internal slice header but shares the *Individual pointers.
func (p *Population) Individuals() []*Individual {
	out := make([]*Individual, len(p.individuals))
	copy(out, p.individuals)
	return out
}

// Ranking returns indices into Individuals(), sorted by fitness descending,
// ties broken by insertion order.
func (p *Population) Ranking() []int {
	idxs := make([]int, len(p.individuals))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool {
		return p.individuals[idxs[i]].rankValue() > p.individuals[idxs[j]].rankValue()
	})
	return idxs
}

// FittestByRank returns the (k+1)-th best individual (k=0 is the fittest),
// or nil if k is out of range.
func (p *Population) FittestByRank(k int) *Individual {
	ranking := p.Ranking()
	if k < 0 || k >= len(ranking) {
		return nil
	}
	return p.individuals[ranking[k]]
}

// PruneTo keeps only the top n individuals by fitness rank, discarding the
// rest; the kept individuals are reordered by rank (best first).
func (p *Population) PruneTo(n int) {
	ranking := p.Ranking()
	if n > len(ranking) {
		n = len(ranking)
	}
	if n < 0 {
		n = 0
	}
	kept := make([]*Individual, n)
	for i := 0; i < n; i++ {
		kept[i] = p.individuals[ranking[i]]
	}
	p.individuals = kept
}

// SampleProportional picks one individual from the population with
// probability proportional to its fitness (see fitnessEpsilon).
func (p *Population) SampleProportional(rng *Rand) *Individual {
	idx := sampleProportionalIndex(p.individuals, rng)
	if idx < 0 {
		return nil
	}
	return p.individuals[idx]
}

// sampleProportionalIndex returns an index into inds chosen with
// probability proportional to each individual's rankValue (floored by
// fitnessEpsilon), or -1 if inds is empty.
func sampleProportionalIndex(inds []*Individual, rng *Rand) int {
	if len(inds) == 0 {
		return -1
	}

	weights := make([]float64, len(inds))
	total := 0.0
	for i, ind := range inds {
		w := ind.rankValue()
		if math.IsInf(w, -1) || w < 0 {
			w = 0
		}
		w += fitnessEpsilon
		weights[i] = w
		total += w
	}

	pick := rng.Float64() * total
	for i, w := range weights {
		pick -= w
		if pick < 0 {
			return i
		}
	}
	return len(inds) - 1
}
