package gbgp

import "strings"

// Synthesize performs a post-order walk of t, concatenating terminal
// values in left-to-right leaf order with no separator. Terminals that
// require a separator must encode it in their own value strings.
func Synthesize(t *SyntaxTree) string {
	if t == nil || t.Root == nil {
		return ""
	}
	var sb strings.Builder
	synthesizeNode(t.Root, &sb)
	return sb.String()
}

func synthesizeNode(n *TreeNode, sb *strings.Builder) {
	if n.terminal {
		v, _ := n.Value()
		sb.WriteString(v)
		return
	}
	for _, c := range n.children {
		synthesizeNode(c, sb)
	}
}

// ExternalEvaluate is the escape hatch for hosts that prefer to evaluate a
// tree outside of gbgp's semantic-action machinery: it synthesizes t and
// hands the resulting string to fn.
func ExternalEvaluate(t *SyntaxTree, fn func(string) string) string {
	return fn(Synthesize(t))
}
