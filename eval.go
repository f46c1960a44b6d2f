package gbgp

import (
	"fmt"
	"strings"
)

// EvaluationContext is the view a SemanticAction receives of the
// NonTerminalNode it is computing a value for. SemanticValue(i) returns the
// already-evaluated result of child i; SetResult records the node's value;
// GetResult reads it back (and, after a full Evaluate call completes,
// holds the root's value).
//
// Hosts that need domain-specific fields (an interpreter's variable
// bindings, say) embed BaseContext in their own struct, the way spec's
// "subclass the context" design note describes; embedding is what grants
// the unexported method gbgp uses internally to re-scope the context to
// each node as evaluation descends the tree, so EvaluationContext cannot be
// implemented from scratch outside this package.
type EvaluationContext interface {
	SemanticValue(i int) string
	SetResult(s string)
	GetResult() string

	prepareNode(childValues []string)
}

// BaseContext is the default EvaluationContext implementation. Embed it by
// pointer or value in a caller-defined struct to add domain fields while
// inheriting SemanticValue/SetResult/GetResult and gbgp's ability to
// re-scope the context per node.
type BaseContext struct {
	childValues []string
	result      string
}

// SemanticValue returns the already-evaluated result of child i of the node
// currently being processed, or "" if i is out of range.
func (c *BaseContext) SemanticValue(i int) string {
	if i < 0 || i >= len(c.childValues) {
		return ""
	}
	return c.childValues[i]
}

// SetResult sets the value of the node currently being processed.
func (c *BaseContext) SetResult(s string) {
	c.result = s
}

// GetResult returns the most recently set result.
func (c *BaseContext) GetResult() string {
	return c.result
}

func (c *BaseContext) prepareNode(childValues []string) {
	c.childValues = childValues
	c.result = ""
}

// Evaluate performs a post-order traversal of t under ctx. For each
// TerminalNode, its semantic value is its chosen value string. For each
// NonTerminalNode: if its generator rule has no semantic action, its
// semantic value is the concatenation of its children's semantic values
// (the default action); otherwise its rule's Action is invoked with ctx
// re-scoped so SemanticValue(i) returns child i's value, and the action
// must call ctx.SetResult to supply the node's value (if it doesn't, the
// node's value is simply empty -- not an error). After the root completes,
// ctx.GetResult() holds the root's value, and Evaluate also returns it
// directly.
//
// A panicking semantic action is recovered and surfaced as an
// EvaluationError; Evaluate does not retry.
func Evaluate(t *SyntaxTree, ctx EvaluationContext) (string, error) {
	if t == nil || t.Root == nil {
		ctx.prepareNode(nil)
		ctx.SetResult("")
		return "", nil
	}

	if err := evaluateNode(t.Root, ctx); err != nil {
		return "", err
	}

	rootValue, _ := t.Root.semValue()
	ctx.prepareNode(nil)
	ctx.SetResult(rootValue)
	return rootValue, nil
}

func evaluateNode(n *TreeNode, ctx EvaluationContext) error {
	if n.terminal {
		v, _ := n.Value()
		n.setSemValue(v)
		return nil
	}

	for _, c := range n.children {
		if err := evaluateNode(c, ctx); err != nil {
			return err
		}
	}

	childValues := make([]string, len(n.children))
	for i, c := range n.children {
		v, _ := c.semValue()
		childValues[i] = v
	}

	rule, hasRule := n.Rule()
	if !hasRule || rule.Action == nil {
		n.setSemValue(strings.Join(childValues, ""))
		return nil
	}

	ctx.prepareNode(childValues)
	if err := invokeAction(rule.Action, ctx, n); err != nil {
		return err
	}
	n.setSemValue(ctx.GetResult())
	return nil
}

func invokeAction(action SemanticAction, ctx EvaluationContext, n *TreeNode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvaluationError{Node: n.DebugString(), Err: fmt.Errorf("%v", r)}
		}
	}()
	action(ctx)
	return nil
}
