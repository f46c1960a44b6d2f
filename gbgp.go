// Package gbgp implements the core of a grammar-based genetic programming
// engine: it evolves populations of syntactically valid expressions drawn
// from a caller-supplied context-free grammar in order to fit a
// caller-supplied fitness function.
//
// The package is organized around four tightly coupled subsystems: grammar
// representation (Terminal, NonTerminal, ProductionRule, Grammar), the
// syntax-tree model (TreeNode, SyntaxTree), tree operations (derivation,
// synthesis, evaluation, crossover, mutation, pruning), and the evolutionary
// engine (Individual, Population, Environment).
//
// gbgp never parses source text: trees are built by random derivation from a
// grammar, not by reading an input string. Terminal values are opaque
// strings; no type system is imposed on them. Fitness evaluation is
// single-threaded by contract.
package gbgp
