package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every test source here must parse, and Render()ing the resulting file
// must reproduce it byte-for-byte (spec §8's round-trip invariant). A
// construct that breaks this either never reaches the parser (caught by
// require.NoError) or silently drops trivia/tokens on the way back out
// (caught by the Render comparison).
func TestParseFileRoundTripsExactSource(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"empty file", ""},
		{"function with arithmetic", "fun add(a: int32, b: int32): int32 {\n\treturn a + b\n}\n"},
		{"struct with stored property", "struct Point {\n\tvar x: int32 = 0\n\tvar y: int32 = 0\n}\n"},
		{"protocol", "protocol Shape {\n\tfun area(self): int32\n}\n"},
		{"extension", "extension Point {\n\tfun sum(self): int32 {\n\t\treturn self.x + self.y\n\t}\n}\n"},
		{"extern block", "extern \"C\" {\n\tfun puts(s: str): int32\n}\n"},
		{"use path", "use geometry::square\n"},
		{"use path with alias", "use geometry::square as sq\n"},
		{"bodyless module", "mod geometry;\n"},
		{"inline module", "mod geometry {\n\tfun square(x: int32): int32 {\n\t\treturn x * x\n\t}\n}\n"},
		{"generic function declaration", "fun identity<T>(x: T): T {\n\treturn x\n}\n"},
		{"if expression", "fun choose(flag: bool): int32 {\n\treturn if (flag) {\n\t\t1\n\t} else {\n\t\t2\n\t}\n}\n"},
		{"while loop", "fun count(n: int32) {\n\twhile (n) {\n\t\tn = n - 1\n\t}\n}\n"},
		{"array literal", "fun make(): Array<int32> {\n\treturn [1, 2, 3]\n}\n"},
		{"index expression", "fun get(xs: Array<int32>): int32 {\n\treturn xs[0]\n}\n"},
		{"cast expression", "fun truncate(x: int64): int32 {\n\treturn x as int32\n}\n"},
		{"doc comment on function", "/// Squares x.\nfun square(x: int32): int32 {\n\treturn x * x\n}\n"},
		{"weird spacing preserved", "fun   add(a: int32,   b: int32)  :  int32 {\n\treturn a+b\n}\n"},
		{"lambda with one param", "fun run(): int32 {\n\treturn |x: int32| -> { return x * 2 }\n}\n"},
		{"lambda with multiple params", "fun run(): int32 {\n\treturn |x: int32, y: int32| -> { return x + y }\n}\n"},
		{"lambda with no params", "fun run(): int32 {\n\treturn || -> { return 1 }\n}\n"},
		{"immediately invoked lambda", "fun run(): int32 {\n\treturn (|x: int32| -> { return x * 2 })(5)\n}\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFile("t.wiz", []byte(tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.src, f.Render())
		})
	}
}

// TestParseLambdaProducesParamsArrowAndBody pins down the shape built by
// the fix to the lambda production: parsePrimary's `|` case must actually
// consume the parameter list (and its closing `|`) before handing off to
// the arrow and block, rather than leaving the cursor stuck on the
// opening `|` forever.
func TestParseLambdaProducesParamsArrowAndBody(t *testing.T) {
	const src = "fun run(): int32 {\n\treturn |x: int32, y: int32| -> { return x + y }\n}\n"
	f, err := ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	fn := f.Decls[0].Fun
	require.NotNil(t, fn)
	ret := fn.Body.List[0].Expr.Return
	require.NotNil(t, ret)
	lambda := ret.Value.Lambda
	require.NotNil(t, lambda)
	require.Len(t, lambda.Params.List, 2)
	assert.Equal(t, "x", lambda.Params.List[0].Name.Render())
	assert.Equal(t, "y", lambda.Params.List[1].Name.Render())
	require.Len(t, lambda.Body.List, 1)
}

func TestParseEmptyLambdaHasNoParams(t *testing.T) {
	const src = "fun run(): int32 {\n\treturn || -> { return 1 }\n}\n"
	f, err := ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	lambda := f.Decls[0].Fun.Body.List[0].Expr.Return.Value.Lambda
	require.NotNil(t, lambda)
	assert.Equal(t, 0, lambda.Params.NumFields())
}

func TestParseRejectsUnterminatedParenthesizedExpression(t *testing.T) {
	_, err := ParseFile("t.wiz", []byte("fun run(): int32 {\n\treturn (1 + 2\n}\n"))
	require.Error(t, err)
}

func TestParseDistinguishesLogicalOrFromLambda(t *testing.T) {
	const src = "fun any(a: bool, b: bool): bool {\n\treturn a || b\n}\n"
	f, err := ParseFile("t.wiz", []byte(src))
	require.NoError(t, err)

	ret := f.Decls[0].Fun.Body.List[0].Expr.Return
	require.NotNil(t, ret.Value.Binary)
	assert.Equal(t, "||", ret.Value.Binary.OpTok.Text)
	assert.Nil(t, ret.Value.Lambda)
}
