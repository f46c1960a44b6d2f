package gbgp

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EnvironmentConfig_Validate(t *testing.T) {
	base := EnvironmentConfig{
		PopulationSize:         10,
		MaxDepth:               3,
		SurvivorsPerGeneration: 4,
		Elites:                 2,
		MutationProbability:    0.3,
	}
	assert.NoError(t, base.validate())

	cases := []EnvironmentConfig{
		{PopulationSize: 1, MaxDepth: 3, SurvivorsPerGeneration: 1, Elites: 0, MutationProbability: 0},
		{PopulationSize: 10, MaxDepth: 0, SurvivorsPerGeneration: 1, Elites: 0, MutationProbability: 0},
		{PopulationSize: 10, MaxDepth: 3, SurvivorsPerGeneration: 0, Elites: 0, MutationProbability: 0},
		{PopulationSize: 10, MaxDepth: 3, SurvivorsPerGeneration: 11, Elites: 0, MutationProbability: 0},
		{PopulationSize: 10, MaxDepth: 3, SurvivorsPerGeneration: 4, Elites: 5, MutationProbability: 0},
		{PopulationSize: 10, MaxDepth: 3, SurvivorsPerGeneration: 4, Elites: 2, MutationProbability: 1.5},
	}
	for _, c := range cases {
		assert.Error(t, c.validate())
	}
}

// Fitness monotonicity of elites (spec §8 property 7).
func Test_Environment_Optimize_EliteFitnessNeverDecreases(t *testing.T) {
	g, _, _ := buildArithmeticGrammar()
	seed := int64(17)

	fitness := func(tree *SyntaxTree) float64 {
		return float64(len(Synthesize(tree)))
	}

	env, err := NewEnvironment(g, fitness, EnvironmentConfig{
		PopulationSize:         20,
		MaxDepth:               4,
		SurvivorsPerGeneration: 6,
		Elites:                 2,
		MutationProbability:    0.5,
		RNGSeed:                &seed,
	})
	require.NoError(t, err)

	best := env.GetPopulation().FittestByRank(0)
	prevBest, _ := best.Fitness()

	for i := 0; i < 10; i++ {
		require.NoError(t, env.Optimize())
		curBest, _ := env.GetPopulation().FittestByRank(0).Fitness()
		assert.GreaterOrEqual(t, curBest, prevBest)
		prevBest = curBest
	}

	assert.Equal(t, 10, env.GetGenerationNumber())
	assert.Len(t, env.History(), 11)
}

func digitPairGrammar() (*Grammar, NonTerminal, Terminal) {
	pair := NewNonTerminal(1, "PAIR")
	digit := NewTerminal(1, "DIGIT", "0", "1", "2", "3", "4", "5", "6", "7", "8")

	rule := NewProductionRule(pair,
		NewProductionElement(NewTerminalSymbol(digit)),
		NewProductionElement(NewTerminalSymbol(digit)),
	)

	g, err := NewGrammar([]ProductionRule{rule})
	if err != nil {
		panic(err)
	}
	return g, pair, digit
}

// arithmeticContext carries the (x, y) bindings a symbolic-regression
// individual is evaluated under, following eval_test.go's sumContext
// pattern of embedding BaseContext to add domain fields.
type arithmeticContext struct {
	BaseContext
	X, Y int
}

// arithmeticEvalGrammar builds the EXPR/TERM/FACTOR grammar of
// arithmetic_grammar_test.go, but with semantic actions attached so that
// Evaluate computes the arithmetic value of an individual under an
// arithmeticContext's x/y bindings instead of just synthesizing its text.
func arithmeticEvalGrammar() *Grammar {
	expr := NewNonTerminal(1, "EXPR")
	term := NewNonTerminal(2, "TERM")
	factor := NewNonTerminal(3, "FACTOR")

	plus := NewTerminal(1, "Plus", "+")
	times := NewTerminal(2, "Times", "*")
	lparen := NewTerminal(3, "LParen", "(")
	rparen := NewTerminal(4, "RParen", ")")
	v := NewTerminal(5, "var", "x", "y", "1")

	exprPlusTerm := NewProductionRule(expr,
		NewProductionElement(NewNonTerminalSymbol(expr)),
		NewProductionElement(NewTerminalSymbol(plus)),
		NewProductionElement(NewNonTerminalSymbol(term)),
	).WithAction(func(ctx EvaluationContext) {
		n1, _ := strconv.Atoi(ctx.SemanticValue(0))
		n2, _ := strconv.Atoi(ctx.SemanticValue(2))
		ctx.SetResult(strconv.Itoa(n1 + n2))
	})

	exprToTerm := NewProductionRule(expr, NewProductionElement(NewNonTerminalSymbol(term)))

	termTimesFactor := NewProductionRule(term,
		NewProductionElement(NewNonTerminalSymbol(term)),
		NewProductionElement(NewTerminalSymbol(times)),
		NewProductionElement(NewNonTerminalSymbol(factor)),
	).WithAction(func(ctx EvaluationContext) {
		n1, _ := strconv.Atoi(ctx.SemanticValue(0))
		n2, _ := strconv.Atoi(ctx.SemanticValue(2))
		ctx.SetResult(strconv.Itoa(n1 * n2))
	})

	termToFactor := NewProductionRule(term, NewProductionElement(NewNonTerminalSymbol(factor)))

	// Weight 1, the same as FACTOR -> var, so parenthesized factors are as
	// likely as plain variables when a FACTOR is expanded below the depth
	// bound. Its action passes the inner
	// EXPR's value straight through so pruning isn't load-bearing for
	// evaluation to stay numeric.
	factorParen := NewProductionRule(factor,
		NewProductionElement(NewTerminalSymbol(lparen)),
		NewProductionElement(NewNonTerminalSymbol(expr)),
		NewProductionElement(NewTerminalSymbol(rparen)),
	).WithAction(func(ctx EvaluationContext) {
		ctx.SetResult(ctx.SemanticValue(1))
	}).WithWeight(1)

	factorVar := NewProductionRule(factor, NewProductionElement(NewTerminalSymbol(v))).
		WithAction(func(ctx EvaluationContext) {
			var value int
			ac, _ := ctx.(*arithmeticContext)
			switch ctx.SemanticValue(0) {
			case "x":
				if ac != nil {
					value = ac.X
				}
			case "y":
				if ac != nil {
					value = ac.Y
				}
			default:
				value = 1
			}
			ctx.SetResult(strconv.Itoa(value))
		})

	g, err := NewGrammar([]ProductionRule{
		exprPlusTerm, exprToTerm, termTimesFactor, termToFactor, factorParen, factorVar,
	}, WithStartSymbol(expr))
	if err != nil {
		panic(err)
	}
	return g
}

// Scenario E — optimize to optimum: f(x,y) = 1 + 2x + y^3 over x,y in
// [0,8], driven through the full Evaluate/EvaluationContext path rather
// than string synthesis.
func Test_Environment_Optimize_FindsExactTargetWithinGenerations(t *testing.T) {
	g := arithmeticEvalGrammar()

	targetFn := func(x, y int) int { return 1 + 2*x + y*y*y }

	fitness := func(tree *SyntaxTree) float64 {
		var total float64
		var n int
		for x := 0; x <= 8; x++ {
			for y := 0; y <= 8; y++ {
				ctx := &arithmeticContext{X: x, Y: y}
				result, err := Evaluate(tree, ctx)
				if err != nil {
					return 0
				}
				value, err := strconv.Atoi(result)
				if err != nil {
					return 0
				}
				total += math.Abs(float64(value - targetFn(x, y)))
				n++
			}
		}
		return 1 / (1 + total/float64(n))
	}

	// Stochastic by nature (spec.md scenario E): try a handful of seeds and
	// require at least one to reach the exact optimum within 50 generations.
	var bestFitness float64
	for _, seedVal := range []int64{1, 2, 3, 4, 5} {
		seed := seedVal
		env, err := NewEnvironment(g, fitness, EnvironmentConfig{
			PopulationSize:         200,
			MaxDepth:               100,
			SurvivorsPerGeneration: 5,
			Elites:                 5,
			MutationProbability:    0.4,
			RNGSeed:                &seed,
		})
		require.NoError(t, err)
		require.NoError(t, env.Run(50))

		fittest := env.GetPopulation().FittestByRank(0)
		f, ok := fittest.Fitness()
		require.True(t, ok)
		if f > bestFitness {
			bestFitness = f
		}
		if bestFitness == 1.0 {
			break
		}
	}

	assert.Equal(t, 1.0, bestFitness)
}

func Test_Environment_History_RecordsEveryGeneration(t *testing.T) {
	g, _, _ := digitPairGrammar()
	fitness := func(tree *SyntaxTree) float64 { return float64(len(Synthesize(tree))) }

	seed := int64(99)
	env, err := NewEnvironment(g, fitness, EnvironmentConfig{
		PopulationSize:         8,
		MaxDepth:               3,
		SurvivorsPerGeneration: 3,
		Elites:                 1,
		MutationProbability:    0.2,
		RNGSeed:                &seed,
	})
	require.NoError(t, err)

	require.NoError(t, env.Run(3))

	history := env.History()
	assert := assert.New(t)
	assert.Len(history, 4)
	for i, stat := range history {
		assert.Equal(i, stat.Generation)
	}
}
