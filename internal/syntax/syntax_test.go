package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ann(start, end int) Annotation {
	return Annotation{Range: SourceRange{Start: start, End: end}}
}

func ident(name string, start, end int) *Term {
	return New(TagIdentifier, ann(start, end), name)
}

func TestNewEnforcesArity(t *testing.T) {
	assert.Panics(t, func() {
		New(TagIdentifier, ann(0, 3), "x", ident("y", 0, 1))
	}, "leaf tag with a child")
	assert.Panics(t, func() {
		New(TagBinary, ann(0, 5), "", ident("a", 0, 1), ident("b", 4, 5))
	}, "binary with two children")
	assert.Panics(t, func() {
		New(TagProgram, ann(0, 0), "leafy")
	}, "leaf text on a tag that carries none")
	assert.NotPanics(t, func() {
		New(TagProgram, ann(0, 0), "")
	}, "empty program")
}

func TestCategory(t *testing.T) {
	op := New(TagOperator, ann(4, 7), "and")
	assert.Equal(t, "and", op.Category(), "operator tokens render as the literal token")
	assert.Equal(t, "Identifier", ident("foo", 0, 3).Category())
	assert.Equal(t, "Program", New(TagProgram, ann(0, 0), "").Category())
	assert.Equal(t, "Map", New(TagMapType, ann(0, 10), "", ident("k", 4, 5), ident("v", 6, 7)).Category())
}

func TestLineIndexSpan(t *testing.T) {
	tcs := []struct {
		name string
		src  string
		r    SourceRange
		want SourceSpan
	}{
		{
			name: "single line whole text",
			src:  "foo and bar",
			r:    SourceRange{Start: 0, End: 11},
			want: SourceSpan{Start: Pos{1, 1}, End: Pos{1, 12}},
		},
		{
			name: "second line",
			src:  "abc\ndef\n",
			r:    SourceRange{Start: 4, End: 7},
			want: SourceSpan{Start: Pos{2, 1}, End: Pos{2, 4}},
		},
		{
			name: "crossing a newline",
			src:  "ab\ncd",
			r:    SourceRange{Start: 1, End: 4},
			want: SourceSpan{Start: Pos{1, 2}, End: Pos{2, 2}},
		},
		{
			name: "empty range at end of text",
			src:  "x",
			r:    SourceRange{Start: 1, End: 1},
			want: SourceSpan{Start: Pos{1, 2}, End: Pos{1, 2}},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewLineIndex(tc.src).Span(tc.r))
		})
	}
}

func TestLineIndexPos(t *testing.T) {
	li := NewLineIndex("abc\ndef\n")
	assert.Equal(t, Pos{1, 1}, li.Pos(0))
	assert.Equal(t, Pos{1, 4}, li.Pos(3), "the newline byte belongs to its line")
	assert.Equal(t, Pos{2, 1}, li.Pos(4))
	assert.Equal(t, Pos{3, 1}, li.Pos(8), "one past the final byte")
}

func TestEqual(t *testing.T) {
	a := New(TagBinary, ann(0, 11), "",
		ident("foo", 0, 3),
		New(TagOperator, ann(4, 7), "and"),
		ident("bar", 8, 11),
	)
	b := New(TagBinary, ann(0, 11), "",
		ident("foo", 0, 3),
		New(TagOperator, ann(4, 7), "and"),
		ident("bar", 8, 11),
	)
	require.True(t, Equal(a, b))
	require.True(t, EqualIgnoringPosition(a, b))

	moved := New(TagBinary, ann(10, 21), "",
		ident("foo", 10, 13),
		New(TagOperator, ann(14, 17), "and"),
		ident("bar", 18, 21),
	)
	assert.False(t, Equal(a, moved), "different positions")
	assert.True(t, EqualIgnoringPosition(a, moved), "same shape and leaves")

	renamed := New(TagBinary, ann(0, 11), "",
		ident("foo", 0, 3),
		New(TagOperator, ann(4, 7), "and"),
		ident("baz", 8, 11),
	)
	assert.False(t, EqualIgnoringPosition(a, renamed))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestWithChildrenAndSize(t *testing.T) {
	bin := New(TagBinary, ann(0, 11), "",
		ident("foo", 0, 3),
		New(TagOperator, ann(4, 7), "and"),
		ident("bar", 8, 11),
	)
	require.Equal(t, 4, bin.Size())

	swapped := bin.WithChildren([]*Term{bin.Children[2], bin.Children[1], bin.Children[0]})
	assert.Equal(t, bin.Ann, swapped.Ann)
	assert.Equal(t, "bar", swapped.Children[0].Leaf)
	assert.Equal(t, "foo", bin.Children[0].Leaf, "original is untouched")

	assert.Panics(t, func() { bin.WithChildren(nil) }, "arity still enforced on rebuild")
}

func TestLeafText(t *testing.T) {
	bin := New(TagBinary, ann(0, 11), "",
		ident("foo", 0, 3),
		New(TagOperator, ann(4, 7), "and"),
		ident("bar", 8, 11),
	)
	assert.Equal(t, []string{"foo", "and", "bar"}, bin.LeafText(nil))
	assert.Nil(t, New(TagProgram, ann(0, 0), "").LeafText(nil))
}
