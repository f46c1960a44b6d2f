package gbgp

import "fmt"

// nodeRef locates a node within a tree by its pre-order position, together
// with enough context (parent + position in parent's children, and depth)
// to replace it in place.
type nodeRef struct {
	node   *TreeNode
	parent *TreeNode
	pos    int
	depth  int
}

// preOrderRefs flattens root into pre-order position order. Index 0 is
// always the root itself.
func preOrderRefs(root *TreeNode) []nodeRef {
	var out []nodeRef
	var walk func(n, parent *TreeNode, pos, depth int)
	walk = func(n, parent *TreeNode, pos, depth int) {
		if n == nil {
			return
		}
		out = append(out, nodeRef{node: n, parent: parent, pos: pos, depth: depth})
		for i, c := range n.children {
			walk(c, n, i, depth+1)
		}
	}
	walk(root, nil, -1, 0)
	return out
}

// Clone returns a deep copy of t.
func Clone(t *SyntaxTree) *SyntaxTree {
	return t.Copy()
}

// NodesOfKind returns the pre-order indices of every NonTerminalNode in t
// whose non-terminal is nt.
func NodesOfKind(t *SyntaxTree, nt NonTerminal) []int {
	var out []int
	for i, ref := range preOrderRefs(t.Root) {
		if !ref.node.terminal && ref.node.nonTerm.Equal(nt) {
			out = append(out, i)
		}
	}
	return out
}

// SubtreeAt returns a new SyntaxTree rooted at a clone of the node at
// pre-order index idx.
func SubtreeAt(t *SyntaxTree, idx int) (*SyntaxTree, error) {
	refs := preOrderRefs(t.Root)
	if idx < 0 || idx >= len(refs) {
		return nil, fmt.Errorf("subtree_at: index %d out of range [0,%d)", idx, len(refs))
	}
	return NewSyntaxTree(refs[idx].node.Copy()), nil
}

// ReplaceSubtree replaces the node at pre-order index idx with a clone of
// other's root. It is an error (TypeMismatchError) if the node at idx is
// not a NonTerminalNode, or if its non-terminal doesn't match other's
// root's non-terminal.
func ReplaceSubtree(t *SyntaxTree, idx int, other *SyntaxTree) error {
	if other == nil || other.Root == nil {
		return fmt.Errorf("replace_subtree: replacement tree is empty")
	}

	refs := preOrderRefs(t.Root)
	if idx < 0 || idx >= len(refs) {
		return fmt.Errorf("replace_subtree: index %d out of range [0,%d)", idx, len(refs))
	}

	target := refs[idx]
	targetNT, ok := target.node.NonTerminal()
	if !ok {
		return &TypeMismatchError{Actual: NonTerminal{Label: "<terminal>"}}
	}
	otherNT, ok := other.Root.NonTerminal()
	if !ok {
		return &TypeMismatchError{Expected: targetNT, Actual: NonTerminal{Label: "<terminal>"}}
	}
	if !targetNT.Equal(otherNT) {
		return &TypeMismatchError{Expected: targetNT, Actual: otherNT}
	}

	replacement := other.Root.Copy()
	if target.parent == nil {
		t.Root = replacement
	} else {
		target.parent.children[target.pos] = replacement
	}
	return nil
}

// Crossover picks a non-terminal common to both a and b, picks uniformly
// one occurrence of it in each, and swaps those subtrees to produce two new
// trees, leaving a and b untouched. If no common non-terminal exists, it
// returns clones of a and b unchanged.
func Crossover(a, b *SyntaxTree, rng *Rand) (*SyntaxTree, *SyntaxTree) {
	aRefs := preOrderRefs(a.Root)
	bRefs := preOrderRefs(b.Root)

	bHas := make(map[int]bool)
	for _, ref := range bRefs {
		if !ref.node.terminal {
			bHas[ref.node.nonTerm.ID] = true
		}
	}

	var common []NonTerminal
	seen := make(map[int]bool)
	for _, ref := range aRefs {
		if ref.node.terminal {
			continue
		}
		nt := ref.node.nonTerm
		if bHas[nt.ID] && !seen[nt.ID] {
			seen[nt.ID] = true
			common = append(common, nt)
		}
	}

	if len(common) == 0 {
		return a.Copy(), b.Copy()
	}

	chosen := common[rng.Intn(len(common))]

	aIdxs := NodesOfKind(a, chosen)
	bIdxs := NodesOfKind(b, chosen)

	aIdx := aIdxs[rng.Intn(len(aIdxs))]
	bIdx := bIdxs[rng.Intn(len(bIdxs))]

	aSubtree, err := SubtreeAt(a, aIdx)
	if err != nil {
		return a.Copy(), b.Copy()
	}
	bSubtree, err := SubtreeAt(b, bIdx)
	if err != nil {
		return a.Copy(), b.Copy()
	}

	childA := a.Copy()
	childB := b.Copy()

	if err := ReplaceSubtree(childA, aIdx, bSubtree); err != nil {
		return a.Copy(), b.Copy()
	}
	if err := ReplaceSubtree(childB, bIdx, aSubtree); err != nil {
		return a.Copy(), b.Copy()
	}

	return childA, childB
}

// Mutate picks a random NonTerminalNode in tree and replaces its subtree
// with a freshly derived one for the same non-terminal, honoring max_depth
// measured from that node's position: the new subtree is derived with a
// depth bound of max_depth minus the node's depth (at least 1). As in
// CreateRandomTree the bound is advisory, so the result can still be deeper
// than max_depth.
func Mutate(tree *SyntaxTree, grammar *Grammar, maxDepth int, rng *Rand) (*SyntaxTree, error) {
	refs := preOrderRefs(tree.Root)

	var ntIdxs []int
	for i, ref := range refs {
		if !ref.node.terminal {
			ntIdxs = append(ntIdxs, i)
		}
	}
	if len(ntIdxs) == 0 {
		return tree.Copy(), nil
	}

	idx := ntIdxs[rng.Intn(len(ntIdxs))]
	target := refs[idx]

	remaining := maxDepth - target.depth
	if remaining < 1 {
		remaining = 1
	}

	newSubtree, err := deriveTree(grammar, target.node.nonTerm, remaining, rng)
	if err != nil {
		return nil, err
	}

	result := tree.Copy()
	if err := ReplaceSubtree(result, idx, newSubtree); err != nil {
		return nil, err
	}
	return result, nil
}
