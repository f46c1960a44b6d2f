package gbgp

import "strings"

// SemanticAction is a caller-supplied callback invoked during evaluate for a
// NonTerminalNode generated by the ProductionRule it is attached to. It
// must call ctx.SetResult with the node's computed value; if it does not,
// the node's semantic value is left empty (not a fatal error).
type SemanticAction func(ctx EvaluationContext)

// ProductionRule rewrites a NonTerminal (the LHS) to an ordered sequence of
// symbols (the RHS), optionally annotated with a semantic action and a
// selection weight.
type ProductionRule struct {
	LHS NonTerminal
	RHS []ProductionElement

	// Action is invoked during evaluate in place of the default
	// concatenation behavior. May be nil.
	Action SemanticAction

	// Weight biases rule selection in choose_rule. NewProductionRule sets it
	// to 1; a value <= 0 is treated as 1 during selection.
	Weight int
}

// NewProductionRule builds a ProductionRule with weight 1 and no semantic
// action. Use the With* methods to attach either.
func NewProductionRule(lhs NonTerminal, rhs ...ProductionElement) ProductionRule {
	return ProductionRule{LHS: lhs, RHS: rhs, Weight: 1}
}

// WithAction returns a copy of r with its semantic action set.
func (r ProductionRule) WithAction(action SemanticAction) ProductionRule {
	r.Action = action
	return r
}

// WithWeight returns a copy of r with its selection weight set. A weight of
// zero or less is not rejected; rule selection treats it as 1 (see
// effectiveWeight).
func (r ProductionRule) WithWeight(weight int) ProductionRule {
	r.Weight = weight
	return r
}

// effectiveWeight returns r.Weight, defaulting to 1 for the zero value so
// that rules built as struct literals (as opposed to via NewProductionRule)
// still participate in weighted selection sanely.
func (r ProductionRule) effectiveWeight() int {
	if r.Weight <= 0 {
		return 1
	}
	return r.Weight
}

// HasNonTerminals returns whether any RHS element is a NonTerminal. It is
// used by create_random_tree to prefer a terminal-only rule once the depth
// bound has been reached.
func (r ProductionRule) HasNonTerminals() bool {
	for _, e := range r.RHS {
		if e.Symbol.IsNonTerminal() {
			return true
		}
	}
	return false
}

// Equal returns whether r and o are the same rule: same LHS identifier and
// the same sequence of RHS symbol identifiers. Weight and Action are not
// part of equality, matching spec's "LHS identifier + RHS symbol-identifier
// sequence" definition.
func (r ProductionRule) Equal(o any) bool {
	other, ok := o.(ProductionRule)
	if !ok {
		return false
	}
	if !r.LHS.Equal(other.LHS) {
		return false
	}
	if len(r.RHS) != len(other.RHS) {
		return false
	}
	for i := range r.RHS {
		if !r.RHS[i].Equal(other.RHS[i]) {
			return false
		}
	}
	return true
}

// Copy returns a duplicate of r. The RHS slice is independently owned; the
// Action closure (if any) is shared, per the long-lived, shared-ownership
// callback model.
func (r ProductionRule) Copy() ProductionRule {
	r2 := r
	r2.RHS = make([]ProductionElement, len(r.RHS))
	copy(r2.RHS, r.RHS)
	return r2
}

// String renders the rule in the stable "<LHS> -> <sym1> <sym2> ..." form.
func (r ProductionRule) String() string {
	var sb strings.Builder
	sb.WriteString(r.LHS.Label)
	sb.WriteString(" -> ")
	for i, e := range r.RHS {
		sb.WriteString(e.String())
		if i+1 < len(r.RHS) {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}
