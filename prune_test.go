package gbgp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario D — prune.
func Test_PruneTree_ParenthesizedFactorReducesToVar(t *testing.T) {
	_, s, r := buildArithmeticGrammar()
	v := NewTerminal(5, "var", "a", "b", "c")
	lparen := NewTerminal(3, "LParen", "(")
	rparen := NewTerminal(4, "RParen", ")")
	times := NewTerminal(2, "Times", "*")

	factorVar := r.factorVar
	termToFactor := r.termToFactor
	exprToTerm := r.exprToTerm
	factorParen := r.factorParen
	termTimesFac := r.termTimesFac

	leftFactor := NewNonTerminalNode(&factorVar, s.factor, NewTerminalNode(v, "a"))
	leftTerm := NewNonTerminalNode(&termToFactor, s.term, leftFactor)

	innerVar := NewNonTerminalNode(&factorVar, s.factor, NewTerminalNode(v, "b"))
	innerTerm := NewNonTerminalNode(&termToFactor, s.term, innerVar)
	innerExpr := NewNonTerminalNode(&exprToTerm, s.expr, innerTerm)
	parenFactor := NewNonTerminalNode(&factorParen, s.factor,
		NewTerminalNode(lparen, "("),
		innerExpr,
		NewTerminalNode(rparen, ")"),
	)

	tree := NewSyntaxTree(NewNonTerminalNode(&termTimesFac, s.term,
		leftTerm,
		NewTerminalNode(times, "*"),
		parenFactor,
	))

	require.Equal(t, "a*(b)", Synthesize(tree))

	// pattern: FACTOR -> ( EXPR -> TERM -> FACTOR -> var ), var left as a
	// wildcard so the matched leaf's actual value is captured.
	pattern := NewSyntaxTree(NewNonTerminalNode(nil, s.factor,
		NewTerminalNode(lparen, "("),
		NewNonTerminalNode(nil, s.expr,
			NewNonTerminalNode(nil, s.term,
				NewNonTerminalNode(nil, s.factor, NewTerminalNode(v)),
			),
		),
		NewTerminalNode(rparen, ")"),
	))
	// replacement: FACTOR -> var, filled with the captured leaf.
	replacement := NewSyntaxTree(NewNonTerminalNode(nil, s.factor, NewTerminalNode(v)))

	pruneRule, err := NewPruneRule(pattern, replacement)
	require.NoError(t, err)

	pruned, matched := Prune(tree, pruneRule)
	assert := assert.New(t)
	assert.True(matched)
	assert.Equal("a*b", Synthesize(pruned))

	// Prune idempotence (spec §8 property 6): applying prune_tree twice
	// yields the same result as applying it once.
	g, err := NewGrammar([]ProductionRule{
		r.exprPlusTerm, r.exprToTerm, r.termTimesFac, r.termToFactor, r.factorParen, r.factorVar,
	}, WithStartSymbol(s.expr), WithPruneRules(pruneRule))
	require.NoError(t, err)

	once, err := PruneTree(g, tree)
	require.NoError(t, err)
	twice, err := PruneTree(g, once)
	require.NoError(t, err)

	assert.True(once.Equal(twice))
	assert.Equal("a*b", Synthesize(once))
}

func Test_Prune_NoMatchReturnsUnchangedClone(t *testing.T) {
	_, s, r := buildArithmeticGrammar()
	v := NewTerminal(5, "var", "a")

	factorVar := r.factorVar
	tree := NewSyntaxTree(NewNonTerminalNode(&factorVar, s.factor, NewTerminalNode(v, "a")))

	unrelatedPattern := NewSyntaxTree(NewNonTerminalNode(nil, s.expr))
	unrelatedReplacement := NewSyntaxTree(NewNonTerminalNode(nil, s.expr))
	rule, err := NewPruneRule(unrelatedPattern, unrelatedReplacement)
	require.NoError(t, err)

	result, matched := Prune(tree, rule)
	assert := assert.New(t)
	assert.False(matched)
	assert.True(tree.Equal(result))
}

func Test_PruneTree_NoPruneRulesReturnsClone(t *testing.T) {
	g, _, _ := buildArithmeticGrammar()
	tree, err := CreateRandomTree(g, 4, NewRand(4))
	require.NoError(t, err)

	pruned, err := PruneTree(g, tree)
	require.NoError(t, err)
	assert.True(t, tree.Equal(pruned))
}
