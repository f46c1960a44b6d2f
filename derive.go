package gbgp

// derivationBudgetFactor is the default iteration-budget multiplier applied
// to max_depth, per spec's suggested "max_depth * a constant, e.g. 100".
const derivationBudgetFactor = 100

type pendingExpansion struct {
	node  *TreeNode
	depth int
}

// CreateRandomTree performs a random derivation of grammar's start symbol,
// expanding every NonTerminalNode until a complete tree of terminals is
// produced. max_depth is advisory: once a node's depth reaches it,
// expansion prefers a rule whose RHS contains no non-terminals, falling
// back to any rule if none exists. Expansion is bounded by an iteration
// budget of max_depth*100; exceeding it yields a DerivationBudgetError.
func CreateRandomTree(grammar *Grammar, maxDepth int, rng *Rand) (*SyntaxTree, error) {
	return deriveTree(grammar, grammar.StartSymbol(), maxDepth, rng)
}

// deriveTree derives a tree rooted at start (any non-terminal of grammar,
// not necessarily its declared start symbol). Mutate uses this directly to
// re-derive a subtree rooted at an arbitrary non-terminal.
func deriveTree(grammar *Grammar, start NonTerminal, maxDepth int, rng *Rand) (*SyntaxTree, error) {
	root := NewNonTerminalNode(nil, start)
	worklist := []pendingExpansion{{node: root, depth: 0}}

	budget := maxDepth * derivationBudgetFactor
	if budget <= 0 {
		budget = derivationBudgetFactor
	}

	iterations := 0
	for len(worklist) > 0 {
		if iterations >= budget {
			return nil, &DerivationBudgetError{StartSymbol: start, Budget: budget}
		}
		iterations++

		cur := worklist[0]
		worklist = worklist[1:]

		rule, err := chooseExpansionRule(grammar, cur.node.nonTerm, cur.depth, maxDepth, rng)
		if err != nil {
			return nil, err
		}

		children := make([]*TreeNode, len(rule.RHS))
		for i, elem := range rule.RHS {
			if term, ok := elem.Symbol.Terminal(); ok {
				children[i] = NewTerminalNode(term, term.RandomValue(rng))
			} else {
				nt, _ := elem.Symbol.NonTerminal()
				child := NewNonTerminalNode(nil, nt)
				children[i] = child
				worklist = append(worklist, pendingExpansion{node: child, depth: cur.depth + 1})
			}
		}

		r := rule
		cur.node.rule = &r
		cur.node.children = children
	}

	return NewSyntaxTree(root), nil
}

// chooseExpansionRule implements the depth-bound fallback of spec section
// 4.2: at or beyond max_depth, prefer a rule with no non-terminals in its
// RHS; if none exists, fall back to choose_rule as normal.
func chooseExpansionRule(grammar *Grammar, nt NonTerminal, depth, maxDepth int, rng *Rand) (ProductionRule, error) {
	if depth < maxDepth {
		return grammar.ChooseRule(nt, rng)
	}

	candidates := grammar.RulesFor(nt)
	if len(candidates) == 0 {
		return ProductionRule{}, &NoRuleError{NonTerminal: nt}
	}

	var terminalOnly []ProductionRule
	for _, r := range candidates {
		if !r.HasNonTerminals() {
			terminalOnly = append(terminalOnly, r)
		}
	}
	if len(terminalOnly) == 0 {
		return grammar.ChooseRule(nt, rng)
	}

	total := 0
	for _, r := range terminalOnly {
		total += r.effectiveWeight()
	}
	pick := rng.Intn(total)
	for _, r := range terminalOnly {
		pick -= r.effectiveWeight()
		if pick < 0 {
			return r, nil
		}
	}
	return terminalOnly[len(terminalOnly)-1], nil
}
