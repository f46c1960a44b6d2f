package gbgp

// This file builds the small arithmetic grammar used throughout the test
// suite (EXPR -> EXPR Plus TERM | TERM, TERM -> TERM Times FACTOR | FACTOR,
// FACTOR -> ( EXPR ) | var), matching spec's worked scenarios.

type arithmeticSymbols struct {
	expr, term, factor NonTerminal
	plus, times, lparen, rparen, v Terminal
}

type arithmeticRules struct {
	exprPlusTerm ProductionRule // rule 1: EXPR -> EXPR Plus TERM
	exprToTerm   ProductionRule // rule 2: EXPR -> TERM
	termTimesFac ProductionRule // rule 3: TERM -> TERM Times FACTOR
	termToFactor ProductionRule // rule 4: TERM -> FACTOR
	factorParen  ProductionRule // rule 5: FACTOR -> ( EXPR )
	factorVar    ProductionRule // rule 6: FACTOR -> var
}

func newArithmeticSymbols() arithmeticSymbols {
	return arithmeticSymbols{
		expr:   NewNonTerminal(1, "EXPR"),
		term:   NewNonTerminal(2, "TERM"),
		factor: NewNonTerminal(3, "FACTOR"),
		plus:   NewTerminal(1, "Plus", "+"),
		times:  NewTerminal(2, "Times", "*"),
		lparen: NewTerminal(3, "LParen", "("),
		rparen: NewTerminal(4, "RParen", ")"),
		v:      NewTerminal(5, "var", "a", "b", "c"),
	}
}

func newArithmeticRules(s arithmeticSymbols) arithmeticRules {
	return arithmeticRules{
		exprPlusTerm: NewProductionRule(s.expr,
			NewProductionElement(NewNonTerminalSymbol(s.expr)),
			NewProductionElement(NewTerminalSymbol(s.plus)),
			NewProductionElement(NewNonTerminalSymbol(s.term)),
		),
		exprToTerm: NewProductionRule(s.expr,
			NewProductionElement(NewNonTerminalSymbol(s.term)),
		),
		termTimesFac: NewProductionRule(s.term,
			NewProductionElement(NewNonTerminalSymbol(s.term)),
			NewProductionElement(NewTerminalSymbol(s.times)),
			NewProductionElement(NewNonTerminalSymbol(s.factor)),
		),
		termToFactor: NewProductionRule(s.term,
			NewProductionElement(NewNonTerminalSymbol(s.factor)),
		),
		factorParen: NewProductionRule(s.factor,
			NewProductionElement(NewTerminalSymbol(s.lparen)),
			NewProductionElement(NewNonTerminalSymbol(s.expr)),
			NewProductionElement(NewTerminalSymbol(s.rparen)),
		),
		factorVar: NewProductionRule(s.factor,
			NewProductionElement(NewTerminalSymbol(s.v)),
		),
	}
}

func buildArithmeticGrammar() (*Grammar, arithmeticSymbols, arithmeticRules) {
	s := newArithmeticSymbols()
	r := newArithmeticRules(s)

	g, err := NewGrammar([]ProductionRule{
		r.exprPlusTerm,
		r.exprToTerm,
		r.termTimesFac,
		r.termToFactor,
		r.factorParen,
		r.factorVar,
	}, WithStartSymbol(s.expr))
	if err != nil {
		panic(err)
	}
	return g, s, r
}
