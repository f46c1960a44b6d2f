package gbgp

// matchAndCapture reports whether pattern matches target (per spec's
// wildcard rules: a value-less TerminalNode matches any value of its
// Terminal, a childless NonTerminalNode matches any subtree of its
// NonTerminal), appending the target subtree captured at each wildcard
// encountered, in pre-order.
func matchAndCapture(pattern, target *TreeNode, captures *[]*TreeNode) bool {
	if pattern == nil || target == nil {
		return pattern == target
	}
	if pattern.terminal != target.terminal {
		return false
	}

	if pattern.terminal {
		if !pattern.term.Equal(target.term) {
			return false
		}
		if !pattern.hasValue {
			*captures = append(*captures, target)
			return true
		}
		return pattern.value == target.value
	}

	if !pattern.nonTerm.Equal(target.nonTerm) {
		return false
	}
	if len(pattern.children) == 0 {
		*captures = append(*captures, target)
		return true
	}
	if len(pattern.children) != len(target.children) {
		return false
	}
	for i := range pattern.children {
		if !matchAndCapture(pattern.children[i], target.children[i], captures) {
			return false
		}
	}
	return true
}

// matchesPattern reports whether pattern matches target, per spec's prune
// pattern-matching rules, discarding any captures.
func matchesPattern(pattern, target *TreeNode) bool {
	var captures []*TreeNode
	return matchAndCapture(pattern, target, &captures)
}

// instantiateReplacement builds a fresh subtree from replacement, threading
// captures into its wildcard leaves in pre-order: the i-th wildcard leaf
// encountered receives captures[i] (cloned), positionally corresponding to
// the i-th wildcard encountered during the pattern match that produced
// captures. A replacement with more wildcards than captures leaves the
// surplus wildcard nodes as literal copies of the pattern-less node.
func instantiateReplacement(replacement *TreeNode, captures []*TreeNode, counter *int) *TreeNode {
	isWildcard := (replacement.terminal && !replacement.hasValue) ||
		(!replacement.terminal && len(replacement.children) == 0)

	if isWildcard {
		idx := *counter
		*counter++
		if idx < len(captures) {
			return captures[idx].Copy()
		}
		return replacement.Copy()
	}

	if replacement.terminal {
		return replacement.Copy()
	}

	newChildren := make([]*TreeNode, len(replacement.children))
	for i, c := range replacement.children {
		newChildren[i] = instantiateReplacement(c, captures, counter)
	}
	return &TreeNode{nonTerm: replacement.nonTerm, rule: replacement.rule, children: newChildren}
}

// Prune pre-order-scans tree for the first node matching rule.Pattern and,
// if found, returns a new tree with that node replaced by an instantiation
// of rule.Replacement, and true. If no node matches, it returns a clone of
// tree unchanged, and false.
func Prune(tree *SyntaxTree, rule PruneRule) (*SyntaxTree, bool) {
	refs := preOrderRefs(tree.Root)

	for i, ref := range refs {
		var captures []*TreeNode
		if !matchAndCapture(rule.Pattern.Root, ref.node, &captures) {
			continue
		}

		counter := 0
		replacementNode := instantiateReplacement(rule.Replacement.Root, captures, &counter)

		result := tree.Copy()
		if ref.parent == nil {
			result.Root = replacementNode
			return result, true
		}

		resultRefs := preOrderRefs(result.Root)
		target := resultRefs[i]
		target.parent.children[target.pos] = replacementNode
		return result, true
	}

	return tree.Copy(), false
}

// pruneBudgetMinimum is the rewrite budget used when PruneTree would
// otherwise compute a budget of zero (an empty tree).
const pruneBudgetMinimum = 1

// PruneTree repeatedly scans tree (pre-order) and applies any matching
// prune rule from grammar until a fixpoint is reached, returning a new
// tree. The number of rewrites applied is bounded by
// (node count * rule count) to guarantee termination; exceeding it yields
// a PruneLoopError.
func PruneTree(grammar *Grammar, tree *SyntaxTree) (*SyntaxTree, error) {
	rules := grammar.PruneRules()
	if len(rules) == 0 {
		return tree.Copy(), nil
	}

	budget := len(preOrderRefs(tree.Root)) * len(rules)
	if budget <= 0 {
		budget = pruneBudgetMinimum
	}

	current := tree.Copy()
	rewrites := 0
	for {
		applied := false
		for _, r := range rules {
			next, matched := Prune(current, r)
			if !matched {
				continue
			}
			current = next
			applied = true
			rewrites++
			if rewrites > budget {
				return nil, &PruneLoopError{Budget: budget}
			}
			break
		}
		if !applied {
			break
		}
	}

	return current, nil
}
