package gbgp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewIndividual_HasNoFitnessUntilEvaluated(t *testing.T) {
	v := NewTerminal(1, "var", "a")
	ind := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))

	_, ok := ind.Fitness()
	assert.False(t, ok)

	f := ind.EvaluateFitness(func(tree *SyntaxTree) float64 { return 0.75 })
	assert.Equal(t, 0.75, f)

	got, ok := ind.Fitness()
	assert.True(t, ok)
	assert.Equal(t, 0.75, got)
}

func Test_Individual_IDsAreDistinct(t *testing.T) {
	v := NewTerminal(1, "var", "a")
	a := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))
	b := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))

	assert.NotEqual(t, a.ID, b.ID)
}

func Test_Individual_RankValue_NaNAndUnevaluatedSortLast(t *testing.T) {
	v := NewTerminal(1, "var", "a")

	unevaluated := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))
	nanFit := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))
	nanFit.EvaluateFitness(func(*SyntaxTree) float64 { return math.NaN() })

	assert := assert.New(t)
	assert.True(math.IsInf(unevaluated.rankValue(), -1))
	assert.True(math.IsInf(nanFit.rankValue(), -1))
}

func Test_Individual_Copy_DeepCopiesTreeButSharesID(t *testing.T) {
	v := NewTerminal(1, "var", "a")
	ind := NewIndividual(NewSyntaxTree(NewTerminalNode(v, "a")))
	ind.EvaluateFitness(func(*SyntaxTree) float64 { return 1 })

	cp := ind.Copy()
	cp.Tree.Root.value = "mutated"

	assert := assert.New(t)
	assert.Equal(ind.ID, cp.ID)
	f, ok := cp.Fitness()
	assert.True(ok)
	assert.Equal(1.0, f)
	assert.Equal("a", ind.Tree.Root.value)
}
