// Package render turns Terms and Diffs into output text: an annotated JSON tree, an
// s-expression with inline change markers, and a line-oriented row/hunk view. All
// renderers are read-only traversals; none mutates its input.
package render

import (
	"strings"

	"github.com/codalotl/treediff/internal/syntax"
	"github.com/codalotl/treediff/internal/treediff"
)

// SExpr pretty-prints t as an s-expression, two spaces of indentation per depth, one
// category label per node (operator tokens print as the literal token, ex: "and"). The
// result is newline-terminated.
func SExpr(t *syntax.Term) string {
	var b strings.Builder
	writeTermSExpr(&b, t, 0)
	b.WriteByte('\n')
	return b.String()
}

// DiffSExpr pretty-prints d like SExpr, wrapping changed subtrees in inline markers:
// insertion as {+...+}, deletion as {-...-}, and replacement as { before\n->after }.
// Merged (unchanged-shape) nodes print unmarked. The result is newline-terminated.
func DiffSExpr(d *treediff.Diff) string {
	var b strings.Builder
	writeDiffSExpr(&b, d, 0)
	b.WriteByte('\n')
	return b.String()
}

func writeTermSExpr(b *strings.Builder, t *syntax.Term, depth int) {
	b.WriteByte('(')
	b.WriteString(t.Category())
	for _, c := range t.Children {
		b.WriteByte('\n')
		writeIndent(b, depth+1)
		writeTermSExpr(b, c, depth+1)
	}
	b.WriteByte(')')
}

func writeDiffSExpr(b *strings.Builder, d *treediff.Diff, depth int) {
	switch d.Op {
	case treediff.OpInsert:
		b.WriteString("{+")
		writeTermSExpr(b, d.After, depth)
		b.WriteString("+}")
	case treediff.OpDelete:
		b.WriteString("{-")
		writeTermSExpr(b, d.Before, depth)
		b.WriteString("-}")
	case treediff.OpReplace:
		b.WriteString("{ ")
		writeTermSExpr(b, d.Before, depth)
		b.WriteByte('\n')
		writeIndent(b, depth)
		b.WriteString("->")
		writeTermSExpr(b, d.After, depth)
		b.WriteString(" }")
	case treediff.OpMerge:
		b.WriteByte('(')
		b.WriteString(d.After.Category())
		for _, c := range d.Children {
			b.WriteByte('\n')
			writeIndent(b, depth+1)
			writeDiffSExpr(b, c, depth+1)
		}
		b.WriteByte(')')
	}
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}
