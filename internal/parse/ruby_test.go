package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/treediff/internal/detectlang"
	"github.com/codalotl/treediff/internal/syntax"
)

func TestRubyBinaryExpression(t *testing.T) {
	prog, err := Ruby("foo and bar")
	require.NoError(t, err)

	require.Equal(t, syntax.TagProgram, prog.Tag)
	assert.Equal(t, syntax.SourceRange{Start: 0, End: 11}, prog.Ann.Range)
	assert.Equal(t, syntax.Pos{Line: 1, Col: 1}, prog.Ann.Span.Start)
	assert.Equal(t, syntax.Pos{Line: 1, Col: 12}, prog.Ann.Span.End)
	require.Len(t, prog.Children, 1)

	bin := prog.Children[0]
	require.Equal(t, syntax.TagBinary, bin.Tag)
	assert.Equal(t, syntax.SourceRange{Start: 0, End: 11}, bin.Ann.Range)
	require.Len(t, bin.Children, 3)

	lhs, op, rhs := bin.Children[0], bin.Children[1], bin.Children[2]
	assert.Equal(t, syntax.TagIdentifier, lhs.Tag)
	assert.Equal(t, "foo", lhs.Leaf)
	assert.Equal(t, syntax.SourceRange{Start: 0, End: 3}, lhs.Ann.Range)
	assert.Equal(t, "and", op.Category())
	assert.Equal(t, syntax.SourceRange{Start: 4, End: 7}, op.Ann.Range)
	assert.Equal(t, "bar", rhs.Leaf)
	assert.Equal(t, syntax.SourceRange{Start: 8, End: 11}, rhs.Ann.Range)
}

func TestRubyMethod(t *testing.T) {
	src := "def add(a, b)\n  return a + b\nend\n"
	prog, err := Ruby(src)
	require.NoError(t, err)
	require.Len(t, prog.Children, 1)

	m := prog.Children[0]
	require.Equal(t, syntax.TagMethod, m.Tag)
	assert.Equal(t, syntax.SourceRange{Start: 0, End: 32}, m.Ann.Range)
	require.Len(t, m.Children, 3)

	name, params, body := m.Children[0], m.Children[1], m.Children[2]
	assert.Equal(t, "add", name.Leaf)
	assert.Equal(t, syntax.SourceRange{Start: 4, End: 7}, name.Ann.Range)

	require.Equal(t, syntax.TagParameters, params.Tag)
	assert.Equal(t, syntax.SourceRange{Start: 7, End: 13}, params.Ann.Range)
	require.Len(t, params.Children, 2)
	assert.Equal(t, "a", params.Children[0].Leaf)
	assert.Equal(t, "b", params.Children[1].Leaf)

	require.Equal(t, syntax.TagStatements, body.Tag)
	require.Len(t, body.Children, 1)
	ret := body.Children[0]
	require.Equal(t, syntax.TagReturn, ret.Tag)
	require.Len(t, ret.Children, 1)
	assert.Equal(t, syntax.TagBinary, ret.Children[0].Tag)
}

func TestRubyEmptyMethodBody(t *testing.T) {
	prog, err := Ruby("def foo()\nend\n")
	require.NoError(t, err)
	require.Len(t, prog.Children, 1)
	m := prog.Children[0]
	require.Len(t, m.Children, 3)
	assert.Empty(t, m.Children[1].Children, "no parameters")
	assert.Empty(t, m.Children[2].Children, "empty body")
}

func TestRubyPrecedence(t *testing.T) {
	// "or" binds looser than "and": a or (b and c).
	prog, err := Ruby("a or b and c")
	require.NoError(t, err)
	bin := prog.Children[0]
	require.Equal(t, syntax.TagBinary, bin.Tag)
	assert.Equal(t, "or", bin.Children[1].Category())
	inner := bin.Children[2]
	require.Equal(t, syntax.TagBinary, inner.Tag)
	assert.Equal(t, "and", inner.Children[1].Category())
}

func TestRubyStatements(t *testing.T) {
	tcs := []struct {
		name string
		src  string
		tag  syntax.Tag
	}{
		{name: "comment", src: "# a comment", tag: syntax.TagComment},
		{name: "assignment", src: "x = 1", tag: syntax.TagAssignment},
		{name: "call", src: "foo(1, x)", tag: syntax.TagCall},
		{name: "string", src: `"hello"`, tag: syntax.TagTextElement},
		{name: "parenthesized", src: "(x)", tag: syntax.TagParenthesized},
		{name: "bare return", src: "return", tag: syntax.TagReturn},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Ruby(tc.src)
			require.NoError(t, err)
			require.Len(t, prog.Children, 1)
			assert.Equal(t, tc.tag, prog.Children[0].Tag)
		})
	}
}

func TestRubyCallArguments(t *testing.T) {
	prog, err := Ruby("foo(1, x)")
	require.NoError(t, err)
	call := prog.Children[0]
	require.Len(t, call.Children, 2)
	args := call.Children[1]
	require.Equal(t, syntax.TagArguments, args.Tag)
	require.Len(t, args.Children, 2)
	assert.Equal(t, syntax.TagInteger, args.Children[0].Tag)
	assert.Equal(t, "1", args.Children[0].Leaf)
	assert.Equal(t, "x", args.Children[1].Leaf)
}

func TestRubyEmptySource(t *testing.T) {
	prog, err := Ruby("")
	require.NoError(t, err)
	assert.Equal(t, syntax.TagProgram, prog.Tag)
	assert.Empty(t, prog.Children)
	assert.Equal(t, syntax.SourceRange{Start: 0, End: 0}, prog.Ann.Range)
}

func TestRubyErrors(t *testing.T) {
	tcs := []struct {
		name string
		src  string
	}{
		{name: "unexpected character", src: "foo @ bar"},
		{name: "unterminated string", src: `x = "oops`},
		{name: "missing close paren", src: "(foo"},
		{name: "missing method name", src: "def (x)\nend"},
		{name: "unterminated method", src: "def foo()\nx = 1"},
		{name: "dangling operator", src: "a and"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Ruby(tc.src)
			require.Error(t, err)
		})
	}
}

func TestRubyDeterminism(t *testing.T) {
	src := "def f(x)\n  return x * 2\nend\nf(21)\n"
	a, err := Ruby(src)
	require.NoError(t, err)
	b, err := Ruby(src)
	require.NoError(t, err)
	assert.True(t, syntax.Equal(a, b))
}

func TestParseRegistry(t *testing.T) {
	assert.True(t, Supported(detectlang.LangRuby))
	assert.False(t, Supported(detectlang.LangSwift))

	_, err := Parse(detectlang.LangSwift, "let x = 1")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	prog, err := Parse(detectlang.LangRuby, "x = 1")
	require.NoError(t, err)
	assert.Equal(t, syntax.TagProgram, prog.Tag)
}
