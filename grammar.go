package gbgp

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// PruneRule is a pattern/replacement pair used by prune_tree to simplify a
// tree after structural modification. Pattern and Replacement must share
// the same root non-terminal.
type PruneRule struct {
	Pattern     *SyntaxTree
	Replacement *SyntaxTree
}

// NewPruneRule builds a PruneRule, returning a GrammarError if pattern and
// replacement do not share a root non-terminal.
func NewPruneRule(pattern, replacement *SyntaxTree) (PruneRule, error) {
	if pattern == nil || pattern.Root == nil {
		return PruneRule{}, newGrammarError("prune rule pattern must have a root")
	}
	if replacement == nil || replacement.Root == nil {
		return PruneRule{}, newGrammarError("prune rule replacement must have a root")
	}
	pnt, ok := pattern.Root.NonTerminal()
	if !ok {
		return PruneRule{}, newGrammarError("prune rule pattern must be rooted at a non-terminal")
	}
	rnt, ok := replacement.Root.NonTerminal()
	if !ok {
		return PruneRule{}, newGrammarError("prune rule replacement must be rooted at a non-terminal")
	}
	if !pnt.Equal(rnt) {
		return PruneRule{}, newGrammarError(
			"prune rule pattern root %q does not match replacement root %q", pnt.Label, rnt.Label)
	}
	return PruneRule{Pattern: pattern, Replacement: replacement}, nil
}

// GrammarOption configures NewGrammar.
type GrammarOption func(*Grammar)

// WithStartSymbol overrides the default start-symbol rule (the LHS of the
// first rule in the list) with an explicit choice.
func WithStartSymbol(nt NonTerminal) GrammarOption {
	return func(g *Grammar) { g.start = nt; g.startSet = true }
}

// WithPruneRules attaches prune rules to the grammar. Prune rules never
// participate in derivation.
func WithPruneRules(rules ...PruneRule) GrammarOption {
	return func(g *Grammar) { g.pruneRules = append(g.pruneRules, rules...) }
}

// Grammar is an ordered collection of ProductionRules indexed by LHS, plus
// an optional set of PruneRules. Every NonTerminal appearing on some RHS
// must have at least one rule with it as LHS, or derivation may fail with a
// NoRuleError; NewGrammar reports such problems immediately as a
// GrammarError.
type Grammar struct {
	rules      []ProductionRule
	byLHS      map[int][]int
	pruneRules []PruneRule

	start    NonTerminal
	startSet bool
}

// NewGrammar builds a Grammar from an ordered list of rules, validating it
// immediately. The start symbol defaults to the LHS of rules[0] unless
// WithStartSymbol is given.
func NewGrammar(rules []ProductionRule, opts ...GrammarOption) (*Grammar, error) {
	g := &Grammar{
		rules: make([]ProductionRule, len(rules)),
		byLHS: make(map[int][]int),
	}
	copy(g.rules, rules)

	for _, opt := range opts {
		opt(g)
	}

	if !g.startSet && len(g.rules) > 0 {
		g.start = g.rules[0].LHS
	}

	for i, r := range g.rules {
		g.byLHS[r.LHS.ID] = append(g.byLHS[r.LHS.ID], i)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate collects every GrammarError present in g: rules with an empty
// RHS, non-terminals referenced on some RHS with no rule defining them, and
// (already checked at construction, but re-verified here) prune rules whose
// pattern/replacement roots disagree. It returns nil if g is well-formed.
func (g *Grammar) Validate() error {
	var problems []string

	if len(g.rules) == 0 {
		problems = append(problems, "grammar has no rules")
	}

	referenced := make(map[int]string)
	for _, r := range g.rules {
		if len(r.RHS) == 0 {
			problems = append(problems, fmt.Sprintf("rule %q has an empty RHS", r.String()))
		}
		for _, e := range r.RHS {
			if nt, ok := e.Symbol.NonTerminal(); ok {
				referenced[nt.ID] = nt.Label
			}
		}
	}

	for id, label := range referenced {
		if len(g.byLHS[id]) == 0 {
			problems = append(problems, fmt.Sprintf("non-terminal %q is referenced but has no rule", label))
		}
	}

	for _, pr := range g.pruneRules {
		if pr.Pattern == nil || pr.Pattern.Root == nil || pr.Replacement == nil || pr.Replacement.Root == nil {
			problems = append(problems, "prune rule has a nil pattern or replacement")
			continue
		}
		pnt, pok := pr.Pattern.Root.NonTerminal()
		rnt, rok := pr.Replacement.Root.NonTerminal()
		if !pok || !rok || !pnt.Equal(rnt) {
			problems = append(problems, "prune rule pattern and replacement roots disagree")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return newGrammarError("%s", strings.Join(problems, "; "))
}

// RulesFor returns all rules with the given non-terminal as LHS, in
// insertion order.
func (g *Grammar) RulesFor(nt NonTerminal) []ProductionRule {
	idxs := g.byLHS[nt.ID]
	out := make([]ProductionRule, len(idxs))
	for i, idx := range idxs {
		out[i] = g.rules[idx]
	}
	return out
}

// ChooseRule selects one rule with LHS nt, weighted by each candidate
// rule's Weight, breaking ties of equal weight uniformly. It returns a
// NoRuleError if no rule exists for nt.
func (g *Grammar) ChooseRule(nt NonTerminal, rng *Rand) (ProductionRule, error) {
	candidates := g.RulesFor(nt)
	if len(candidates) == 0 {
		return ProductionRule{}, &NoRuleError{NonTerminal: nt}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	total := 0
	for _, r := range candidates {
		total += r.effectiveWeight()
	}

	pick := rng.Intn(total)
	for _, r := range candidates {
		pick -= r.effectiveWeight()
		if pick < 0 {
			return r, nil
		}
	}
	// unreachable except for floating point/edge weight bugs; fall back to
	// the last candidate rather than panicking.
	return candidates[len(candidates)-1], nil
}

// StartSymbol returns the grammar's start non-terminal.
func (g *Grammar) StartSymbol() NonTerminal {
	return g.start
}

// PruneRules returns the grammar's prune rules, in insertion order. They
// never participate in derivation.
func (g *Grammar) PruneRules() []PruneRule {
	return g.pruneRules
}

// NonTerminals returns every distinct non-terminal that has at least one
// rule, in first-seen order.
func (g *Grammar) NonTerminals() []NonTerminal {
	seen := make(map[int]bool)
	var out []NonTerminal
	for _, r := range g.rules {
		if !seen[r.LHS.ID] {
			seen[r.LHS.ID] = true
			out = append(out, r.LHS)
		}
	}
	return out
}

// String renders every rule of g as a bordered table, one row per
// non-terminal, using rosed for layout.
func (g *Grammar) String() string {
	data := make([][]string, 0, len(g.NonTerminals()))
	for _, nt := range g.NonTerminals() {
		var prods []string
		for _, r := range g.RulesFor(nt) {
			var syms []string
			for _, e := range r.RHS {
				syms = append(syms, e.String())
			}
			prods = append(prods, strings.Join(syms, " "))
		}
		data = append(data, []string{nt.Label, strings.Join(prods, " | ")})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 96, rosed.Options{
			TableBorders: true,
		}).
		String()
}
