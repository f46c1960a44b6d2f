package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/gbgp"
)

// topLevelGrammar is the top-level structure of a gbgp grammar TOML file.
type topLevelGrammar struct {
	Format   string              `toml:"format"`
	Start    string              `toml:"start"`
	Terminal []terminalDef       `toml:"terminal"`
	Rule     []productionRuleDef `toml:"rule"`
	Prune    []pruneRuleDef      `toml:"prune"`
}

type terminalDef struct {
	Label  string   `toml:"label"`
	Values []string `toml:"values"`
}

type productionRuleDef struct {
	LHS    string   `toml:"lhs"`
	RHS    []string `toml:"rhs"`
	Weight int      `toml:"weight"`
}

// pruneRuleDef expresses a prune rule as flat pattern/replacement symbol
// sequences rooted at the same non-terminal. A pattern symbol names the
// declared terminal/non-terminal its position must match (matching an
// undeclared-value terminal or childless non-terminal as a wildcard that
// still matches only that type); a replacement symbol of "_" is a
// positional wildcard, filled in from the pattern's captures in order.
type pruneRuleDef struct {
	NonTerminal string   `toml:"non_terminal"`
	Pattern     []string `toml:"pattern"`
	Replacement []string `toml:"replacement"`
}

// loadGrammarFile reads and decodes a gbgp grammar TOML file at path,
// assigning sequential IDs to terminals and non-terminals in first-seen
// order, and builds the resulting Grammar.
func loadGrammarFile(path string) (*gbgp.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}

	var top topLevelGrammar
	if _, err := toml.Decode(string(data), &top); err != nil {
		return nil, fmt.Errorf("parse grammar file: %w", err)
	}

	b := newGrammarBuilder()
	for _, t := range top.Terminal {
		if err := b.defineTerminal(t.Label, t.Values); err != nil {
			return nil, err
		}
	}

	var rules []gbgp.ProductionRule
	for _, rd := range top.Rule {
		rule, err := b.buildRule(rd)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	var opts []gbgp.GrammarOption
	if top.Start != "" {
		opts = append(opts, gbgp.WithStartSymbol(b.nonTerminal(top.Start)))
	}

	var pruneRules []gbgp.PruneRule
	for _, pd := range top.Prune {
		pr, err := b.buildPruneRule(pd)
		if err != nil {
			return nil, err
		}
		pruneRules = append(pruneRules, pr)
	}
	if len(pruneRules) > 0 {
		opts = append(opts, gbgp.WithPruneRules(pruneRules...))
	}

	return gbgp.NewGrammar(rules, opts...)
}

// grammarBuilder assigns stable sequential IDs to terminal and non-terminal
// labels as they are first encountered while decoding a grammar file.
type grammarBuilder struct {
	terminalsByLabel    map[string]gbgp.Terminal
	nonTerminalsByLabel map[string]gbgp.NonTerminal
	nextTerminalID      int
	nextNonTerminalID   int
}

func newGrammarBuilder() *grammarBuilder {
	return &grammarBuilder{
		terminalsByLabel:    make(map[string]gbgp.Terminal),
		nonTerminalsByLabel: make(map[string]gbgp.NonTerminal),
	}
}

func (b *grammarBuilder) defineTerminal(label string, values []string) error {
	if _, exists := b.terminalsByLabel[label]; exists {
		return fmt.Errorf("terminal %q defined more than once", label)
	}
	if len(values) == 0 {
		return fmt.Errorf("terminal %q must declare at least one value", label)
	}
	id := b.nextTerminalID
	b.nextTerminalID++
	b.terminalsByLabel[label] = gbgp.NewTerminal(id, label, values...)
	return nil
}

func (b *grammarBuilder) nonTerminal(label string) gbgp.NonTerminal {
	if nt, ok := b.nonTerminalsByLabel[label]; ok {
		return nt
	}
	id := b.nextNonTerminalID
	b.nextNonTerminalID++
	nt := gbgp.NewNonTerminal(id, label)
	b.nonTerminalsByLabel[label] = nt
	return nt
}

// symbol resolves name to a Terminal symbol if it names a declared
// terminal, else to a NonTerminal symbol (declaring it if new).
func (b *grammarBuilder) symbol(name string) gbgp.Symbol {
	if t, ok := b.terminalsByLabel[name]; ok {
		return gbgp.NewTerminalSymbol(t)
	}
	return gbgp.NewNonTerminalSymbol(b.nonTerminal(name))
}

func (b *grammarBuilder) buildRule(rd productionRuleDef) (gbgp.ProductionRule, error) {
	if rd.LHS == "" {
		return gbgp.ProductionRule{}, fmt.Errorf("rule has no lhs")
	}
	lhs := b.nonTerminal(rd.LHS)

	elems := make([]gbgp.ProductionElement, len(rd.RHS))
	for i, name := range rd.RHS {
		elems[i] = gbgp.NewProductionElement(b.symbol(name))
	}

	rule := gbgp.NewProductionRule(lhs, elems...)
	if rd.Weight > 0 {
		rule = rule.WithWeight(rd.Weight)
	}
	return rule, nil
}

func (b *grammarBuilder) buildPruneRule(pd pruneRuleDef) (gbgp.PruneRule, error) {
	nt := b.nonTerminal(pd.NonTerminal)

	pattern, err := b.buildPruneSide(nt, pd.Pattern, false)
	if err != nil {
		return gbgp.PruneRule{}, fmt.Errorf("prune rule pattern: %w", err)
	}
	replacement, err := b.buildPruneSide(nt, pd.Replacement, true)
	if err != nil {
		return gbgp.PruneRule{}, fmt.Errorf("prune rule replacement: %w", err)
	}
	return gbgp.NewPruneRule(pattern, replacement)
}

// buildPruneSide builds a one-level SyntaxTree rooted at nt whose children
// are wildcard placeholders for each named symbol in syms. Matching a
// wildcard node requires agreeing on its underlying Terminal/NonTerminal
// (see matchAndCapture in the root package), so a pattern symbol names a
// declared terminal or else a non-terminal (declared here if new); "_" is
// only accepted on the replacement side, where positional wildcards are
// substituted without regard to declared type.
func (b *grammarBuilder) buildPruneSide(nt gbgp.NonTerminal, syms []string, allowAnonymousWildcard bool) (*gbgp.SyntaxTree, error) {
	if len(syms) == 0 {
		return gbgp.NewSyntaxTree(gbgp.NewNonTerminalNode(nil, nt)), nil
	}

	children := make([]*gbgp.TreeNode, len(syms))
	for i, name := range syms {
		if name == "_" {
			if !allowAnonymousWildcard {
				return nil, fmt.Errorf("%q cannot be used in a pattern; name the terminal or non-terminal the wildcard should match", name)
			}
			children[i] = gbgp.NewNonTerminalNode(nil, nt)
			continue
		}
		if t, ok := b.terminalsByLabel[name]; ok {
			children[i] = gbgp.NewTerminalNode(t)
			continue
		}
		children[i] = gbgp.NewNonTerminalNode(nil, b.nonTerminal(name))
	}
	return gbgp.NewSyntaxTree(gbgp.NewNonTerminalNode(nil, nt, children...)), nil
}
