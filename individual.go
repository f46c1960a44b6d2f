package gbgp

import (
	"math"

	"github.com/google/uuid"
)

// FitnessFunc computes a fitness score for a derived tree. It must be pure
// (no side effects observable across calls) and may return NaN, which
// ranking treats as negative infinity.
type FitnessFunc func(*SyntaxTree) float64

// Individual is a SyntaxTree paired with a fitness score. It is born from
// derivation, crossover, or mutation, and its fitness is assigned by an
// Environment after evaluation.
//
// ID is a stable handle a host can use to correlate an individual across
// log lines or generations, since a Population's slice position is
// insertion order, not a durable identity.
type Individual struct {
	ID   uuid.UUID
	Tree *SyntaxTree

	fitness    float64
	hasFitness bool
}

// NewIndividual wraps tree as a freshly born Individual with no fitness
// assigned yet.
func NewIndividual(tree *SyntaxTree) *Individual {
	return &Individual{ID: uuid.New(), Tree: tree}
}

// Fitness returns the individual's fitness and whether one has been
// assigned yet.
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.hasFitness
}

// EvaluateFitness calls fn on the individual's tree and stores the result.
func (ind *Individual) EvaluateFitness(fn FitnessFunc) float64 {
	f := fn(ind.Tree)
	ind.fitness = f
	ind.hasFitness = true
	return f
}

// rankValue is the fitness value used for ranking and proportional
// sampling: NaN and "not yet evaluated" both map to negative infinity, so
// such individuals always sort last and carry only the fitnessEpsilon floor
// as their weight in proportional sampling.
func (ind *Individual) rankValue() float64 {
	if !ind.hasFitness || math.IsNaN(ind.fitness) {
		return math.Inf(-1)
	}
	return ind.fitness
}

// Copy returns an individual with the same ID and fitness, but an
// independently owned deep copy of its tree.
func (ind *Individual) Copy() *Individual {
	return &Individual{
		ID:         ind.ID,
		Tree:       ind.Tree.Copy(),
		fitness:    ind.fitness,
		hasFitness: ind.hasFitness,
	}
}
