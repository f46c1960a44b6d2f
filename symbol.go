package gbgp

import "fmt"

// Terminal is an immutable leaf symbol of a grammar. It carries a
// caller-assigned integer identifier, a printable label, and a non-empty
// ordered set of value choices; when a Terminal appears in a derivation
// leaf, exactly one of its Values is chosen.
type Terminal struct {
	ID     int
	Label  string
	Values []string
}

// NewTerminal builds a Terminal. It panics if values is empty, since a
// Terminal with no value choices can never be realized in a derivation.
func NewTerminal(id int, label string, values ...string) Terminal {
	if len(values) == 0 {
		panic(fmt.Sprintf("terminal %q must have at least one value choice", label))
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return Terminal{ID: id, Label: label, Values: cp}
}

// RandomValue picks one of the Terminal's value choices uniformly at
// random using rng.
func (t Terminal) RandomValue(rng *Rand) string {
	return t.Values[rng.Intn(len(t.Values))]
}

// Equal returns whether t and o are the same Terminal. Terminals are equal
// iff their identifiers are equal.
func (t Terminal) Equal(o any) bool {
	other, ok := o.(Terminal)
	if !ok {
		return false
	}
	return t.ID == other.ID
}

func (t Terminal) String() string {
	return t.Label
}

// NonTerminal is an immutable symbol that must be expanded by a
// ProductionRule. Non-terminals are equal iff their identifiers are equal.
type NonTerminal struct {
	ID    int
	Label string
}

// NewNonTerminal builds a NonTerminal.
func NewNonTerminal(id int, label string) NonTerminal {
	return NonTerminal{ID: id, Label: label}
}

// Equal returns whether n and o are the same NonTerminal.
func (n NonTerminal) Equal(o any) bool {
	other, ok := o.(NonTerminal)
	if !ok {
		return false
	}
	return n.ID == other.ID
}

func (n NonTerminal) String() string {
	return n.Label
}

// symbolKind discriminates the two cases of a Symbol's tagged union.
type symbolKind int

const (
	symbolKindTerminal symbolKind = iota
	symbolKindNonTerminal
)

// Symbol is a tagged union of Terminal | NonTerminal, used uniformly
// wherever a grammar or tree refers to "a symbol" without caring which kind
// it is.
type Symbol struct {
	kind symbolKind
	term Terminal
	nt   NonTerminal
}

// NewTerminalSymbol wraps a Terminal as a Symbol.
func NewTerminalSymbol(t Terminal) Symbol {
	return Symbol{kind: symbolKindTerminal, term: t}
}

// NewNonTerminalSymbol wraps a NonTerminal as a Symbol.
func NewNonTerminalSymbol(n NonTerminal) Symbol {
	return Symbol{kind: symbolKindNonTerminal, nt: n}
}

// IsTerminal returns whether the Symbol wraps a Terminal.
func (s Symbol) IsTerminal() bool {
	return s.kind == symbolKindTerminal
}

// IsNonTerminal returns whether the Symbol wraps a NonTerminal.
func (s Symbol) IsNonTerminal() bool {
	return s.kind == symbolKindNonTerminal
}

// Terminal returns the wrapped Terminal and true, or the zero Terminal and
// false if this Symbol wraps a NonTerminal.
func (s Symbol) Terminal() (Terminal, bool) {
	if s.kind != symbolKindTerminal {
		return Terminal{}, false
	}
	return s.term, true
}

// NonTerminal returns the wrapped NonTerminal and true, or the zero
// NonTerminal and false if this Symbol wraps a Terminal.
func (s Symbol) NonTerminal() (NonTerminal, bool) {
	if s.kind != symbolKindNonTerminal {
		return NonTerminal{}, false
	}
	return s.nt, true
}

// ID returns the identifier of the wrapped symbol, terminal or not.
func (s Symbol) ID() int {
	if s.kind == symbolKindTerminal {
		return s.term.ID
	}
	return s.nt.ID
}

// Label returns the label of the wrapped symbol, terminal or not.
func (s Symbol) Label() string {
	if s.kind == symbolKindTerminal {
		return s.term.Label
	}
	return s.nt.Label
}

// Equal returns whether s and o refer to the same symbol: same kind, same
// identifier.
func (s Symbol) Equal(o any) bool {
	other, ok := o.(Symbol)
	if !ok {
		return false
	}
	if s.kind != other.kind {
		return false
	}
	if s.kind == symbolKindTerminal {
		return s.term.Equal(other.term)
	}
	return s.nt.Equal(other.nt)
}

func (s Symbol) String() string {
	return s.Label()
}

// ProductionElement wraps a Symbol as it appears in a ProductionRule's RHS
// sequence. It is structurally identical to Symbol at this layer, but kept
// distinct so a future extension can attach per-position metadata (e.g. a
// binding name) without changing Symbol itself.
type ProductionElement struct {
	Symbol Symbol
}

// NewProductionElement wraps a Symbol as a ProductionElement.
func NewProductionElement(s Symbol) ProductionElement {
	return ProductionElement{Symbol: s}
}

// Equal returns whether pe and o wrap the same Symbol.
func (pe ProductionElement) Equal(o any) bool {
	other, ok := o.(ProductionElement)
	if !ok {
		return false
	}
	return pe.Symbol.Equal(other.Symbol)
}

func (pe ProductionElement) String() string {
	return pe.Symbol.String()
}
