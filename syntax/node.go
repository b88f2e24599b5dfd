// Package syntax defines the Concrete Syntax Tree (CST): trivia-preserving
// nodes produced by the parser, one per production in spec §4.2. Every node
// exposes Render, which must reproduce the exact source bytes it was parsed
// from (spec §8 invariant).
package syntax

import "github.com/wiz-lang/wizc/token"

// Node is implemented by every CST node.
type Node interface {
	// Position returns the position of the first character belonging to
	// the node, including its leading trivia.
	Position() token.Position

	// End returns the position immediately after the node's last
	// character, including its trailing trivia.
	End() token.Position

	// Render reproduces the exact source text the node was parsed from.
	Render() string
}

// FirstToken and LastToken describe nodes that wrap exactly one token or
// can identify their boundary tokens cheaply. No node in this package
// implements them; the parser's trivia redistribution works on tokens
// directly.
type FirstToken interface {
	First() *token.Token
}

type LastToken interface {
	Last() *token.Token
}
