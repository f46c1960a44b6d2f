package gbgp

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// TreeNode is a tagged variant representing either a TerminalNode (a
// Terminal plus a chosen value string) or a NonTerminalNode (a NonTerminal,
// the ProductionRule used to expand it, and an ordered list of children).
//
// A NonTerminalNode with no Rule and no children is a *pattern* node: it
// matches any subtree rooted at the same non-terminal (see matchesPattern in
// prune.go). A TerminalNode with no explicit value is likewise a pattern
// node that matches any of its Terminal's value choices. Outside of pattern
// matching, every other TreeNode operation treats these the same as any
// other node of their kind.
type TreeNode struct {
	terminal bool

	term     Terminal
	value    string
	hasValue bool

	nonTerm  NonTerminal
	rule     *ProductionRule
	children []*TreeNode

	semanticValue string
	semanticSet   bool
}

// NewTerminalNode builds a TerminalNode for t. If value is omitted, the
// node is a pattern node matching any of t's value choices; otherwise
// value[0] becomes the node's chosen value (it need not be one of t.Values
// -- that invariant only binds nodes produced by derivation).
func NewTerminalNode(t Terminal, value ...string) *TreeNode {
	n := &TreeNode{terminal: true, term: t}
	if len(value) > 0 {
		n.value = value[0]
		n.hasValue = true
	}
	return n
}

// NewNonTerminalNode builds a NonTerminalNode for nt, generated by rule (may
// be nil for pattern nodes or hand-built fixtures), with the given children.
// Passing no children yields a pattern node matching any subtree rooted at
// nt.
func NewNonTerminalNode(rule *ProductionRule, nt NonTerminal, children ...*TreeNode) *TreeNode {
	n := &TreeNode{nonTerm: nt, rule: rule}
	if len(children) > 0 {
		n.children = make([]*TreeNode, len(children))
		copy(n.children, children)
	}
	return n
}

// IsTerminal returns whether n is a TerminalNode.
func (n *TreeNode) IsTerminal() bool {
	return n.terminal
}

// Terminal returns n's Terminal and true if n is a TerminalNode, else the
// zero Terminal and false.
func (n *TreeNode) Terminal() (Terminal, bool) {
	if !n.terminal {
		return Terminal{}, false
	}
	return n.term, true
}

// Value returns n's chosen value and whether one is set. A TerminalNode
// built as a pattern (no explicit value) reports false.
func (n *TreeNode) Value() (string, bool) {
	if !n.terminal {
		return "", false
	}
	return n.value, n.hasValue
}

// NonTerminal returns n's NonTerminal and true if n is a NonTerminalNode,
// else the zero NonTerminal and false.
func (n *TreeNode) NonTerminal() (NonTerminal, bool) {
	if n.terminal {
		return NonTerminal{}, false
	}
	return n.nonTerm, true
}

// Rule returns the ProductionRule that generated n and true, or nil and
// false if n is a TerminalNode or a pattern NonTerminalNode with no
// recorded generator.
func (n *TreeNode) Rule() (*ProductionRule, bool) {
	if n.terminal || n.rule == nil {
		return nil, false
	}
	return n.rule, true
}

// Children returns n's children. For a TerminalNode this is always empty.
func (n *TreeNode) Children() []*TreeNode {
	return n.children
}

// Symbol returns the Symbol wrapping whichever of Terminal/NonTerminal n
// holds.
func (n *TreeNode) Symbol() Symbol {
	if n.terminal {
		return NewTerminalSymbol(n.term)
	}
	return NewNonTerminalSymbol(n.nonTerm)
}

// Label returns the label of n's underlying symbol.
func (n *TreeNode) Label() string {
	if n.terminal {
		return n.term.Label
	}
	return n.nonTerm.Label
}

// semValue returns the transient semantic value computed for n by the most
// recent evaluate call, and whether one has been set.
func (n *TreeNode) semValue() (string, bool) {
	return n.semanticValue, n.semanticSet
}

// setSemValue records the transient semantic value computed for n.
func (n *TreeNode) setSemValue(s string) {
	n.semanticValue = s
	n.semanticSet = true
}

// Copy returns a deep copy of n and everything beneath it. The
// ProductionRule pointer (if any) is shared, consistent with rules being
// long-lived, caller-owned values; it is never mutated in place by gbgp.
func (n *TreeNode) Copy() *TreeNode {
	if n == nil {
		return nil
	}
	n2 := &TreeNode{
		terminal: n.terminal,
		term:     n.term,
		value:    n.value,
		hasValue: n.hasValue,
		nonTerm:  n.nonTerm,
		rule:     n.rule,
	}
	if n.children != nil {
		n2.children = make([]*TreeNode, len(n.children))
		for i, c := range n.children {
			n2.children[i] = c.Copy()
		}
	}
	return n2
}

// equal reports strict structural equality between n and other: same kind,
// same symbol, same value (if terminal), and pointwise-equal children (if
// non-terminal). Unlike matchesPattern, this never treats an absent
// value/children list as a wildcard.
func (n *TreeNode) equal(other *TreeNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.terminal != other.terminal {
		return false
	}
	if n.terminal {
		return n.term.Equal(other.term) && n.hasValue == other.hasValue && n.value == other.value
	}
	if !n.nonTerm.Equal(other.nonTerm) {
		return false
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for i := range n.children {
		if !n.children[i].equal(other.children[i]) {
			return false
		}
	}
	return true
}

// DebugString renders n in the stable debug form:
//
//	type=<Terminal|NonTerminal>, label=<label> , generatorPR=<rule-text>
//
// (note the space before the comma after label, preserved for
// compatibility). For a TerminalNode, or a NonTerminalNode with no recorded
// generator rule, generatorPR is empty.
func (n *TreeNode) DebugString() string {
	kind := "NonTerminal"
	if n.terminal {
		kind = "Terminal"
	}
	prText := ""
	if r, ok := n.Rule(); ok {
		prText = r.String()
	}
	return fmt.Sprintf("type=%s, label=%s , generatorPR=%s", kind, n.Label(), prText)
}

// SyntaxTree owns a single root TreeNode and the entirety of its subtree.
// A SyntaxTree owns its nodes exclusively; Copy produces an independent deep
// copy, and mutation operations elsewhere in this package (clone,
// replace_subtree, crossover, mutate, prune) are the only sanctioned ways to
// change one after construction.
type SyntaxTree struct {
	Root *TreeNode
}

// NewSyntaxTree wraps root in a SyntaxTree. root may be nil, yielding an
// empty tree.
func NewSyntaxTree(root *TreeNode) *SyntaxTree {
	return &SyntaxTree{Root: root}
}

// Copy returns a deep copy of t.
func (t *SyntaxTree) Copy() *SyntaxTree {
	if t == nil {
		return nil
	}
	return &SyntaxTree{Root: t.Root.Copy()}
}

// Equal returns whether t and o are structurally identical syntax trees.
func (t *SyntaxTree) Equal(o any) bool {
	other, ok := o.(*SyntaxTree)
	if !ok {
		otherVal, ok := o.(SyntaxTree)
		if !ok {
			return false
		}
		other = &otherVal
	}
	if t == nil || other == nil {
		return t == other
	}
	return t.Root.equal(other.Root)
}

// String renders an indented, line-by-line debug dump of the tree suitable
// for visual comparison, in the same box-drawing style the teacher uses for
// parse-tree dumps.
func (t *SyntaxTree) String() string {
	if t == nil || t.Root == nil {
		return "(empty)"
	}
	return leveledTreeString(t.Root, "", "")
}

const (
	treeLevelEmpty             = "        "
	treeLevelOngoing           = "  |     "
	treeLevelPrefix            = "  |%s: "
	treeLevelPrefixLast        = `  \%s: `
	treeLevelPrefixNamePadChar = '-'
	treeLevelNamePad           = 3
)

func makeTreeLevelPrefix(msg string, last bool) string {
	for len([]rune(msg)) < treeLevelNamePad {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	if last {
		return fmt.Sprintf(treeLevelPrefixLast, msg)
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func leveledTreeString(n *TreeNode, firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)

	if n.terminal {
		val, ok := n.Value()
		if !ok {
			val = "*"
		}
		sb.WriteString(rosed.Edit(fmt.Sprintf("(TERM %s=%q)", n.Label(), val)).Wrap(96).String())
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", n.Label()))
	}

	for i, c := range n.children {
		sb.WriteRune('\n')
		last := i+1 >= len(n.children)
		var leveledFirst, leveledCont string
		if last {
			leveledFirst = contPrefix + makeTreeLevelPrefix("", true)
			leveledCont = contPrefix + treeLevelEmpty
		} else {
			leveledFirst = contPrefix + makeTreeLevelPrefix("", false)
			leveledCont = contPrefix + treeLevelOngoing
		}
		sb.WriteString(leveledTreeString(c, leveledFirst, leveledCont))
	}

	return sb.String()
}
