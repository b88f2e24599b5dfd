package parser

import "github.com/wiz-lang/wizc/token"

// redistributeLineTrailing moves, for each adjacent pair of tokens, the
// prefix of the next token's leading trivia up to and including its first
// Newlines piece into the previous token's trailing trivia.
//
// This gives same-line trailing comments ("x = 1 // why") a home on the
// token they follow rather than as leading trivia of whatever comes next,
// matching the discipline described in spec §4.2 ("every whitespace run...
// is captured and attached as trailing trivia of the previous significant
// token, or leading trivia of the next"). Total bytes are unchanged: this
// only reassigns which token's Render() contributes which bytes.
func redistributeLineTrailing(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	copy(out, toks)

	for i := 0; i < len(out)-1; i++ {
		next := out[i+1]
		split := 0
		for j, p := range next.Leading {
			split = j + 1
			if p.Kind == token.Newlines {
				break
			}
		}
		if split == 0 {
			continue
		}
		hasNewline := false
		for _, p := range next.Leading[:split] {
			if p.Kind == token.Newlines {
				hasNewline = true
			}
		}
		if !hasNewline {
			continue
		}

		out[i] = out[i].WithTrailingTrivia(append(token.Trivia{}, next.Leading[:split]...))
		out[i+1] = next.WithLeadingTrivia(append(token.Trivia{}, next.Leading[split:]...))
	}

	return out
}
