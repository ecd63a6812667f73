package syntax

import (
	"fmt"
	"sort"
)

// SourceRange is a half-open byte range [Start, End) into the original UTF-8 source text.
//
// Invariants:
//   - 0 <= Start <= End
type SourceRange struct {
	Start int // Byte offset of the first byte covered by the node.
	End   int // Byte offset one past the last byte covered by the node.
}

func (r SourceRange) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Pos is a 1-indexed line/column position. Col counts bytes from the start of the line
// plus one, so a node starting at the first byte of a line has Col == 1.
type Pos struct {
	Line uint32
	Col  uint32
}

// SourceSpan is the line/column extent of a node. End is the position one past the last
// byte of the node, mirroring SourceRange's half-open convention.
//
// A SourceSpan must be consistent with the SourceRange it annotates under the source
// text that produced both.
type SourceSpan struct {
	Start Pos
	End   Pos
}

func (s SourceSpan) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Annotation is the source-position metadata attached to every Term.
type Annotation struct {
	Range SourceRange
	Span  SourceSpan
}

// LineIndex maps byte offsets in one source text to 1-indexed line/column positions.
// Parsers build one per input and derive every node's SourceSpan through it.
type LineIndex struct {
	starts []int // byte offset of each line start; starts[0] == 0
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Pos returns the position of the byte at offset. An offset of len(src) is valid and
// names the position one past the final byte.
func (li *LineIndex) Pos(offset int) Pos {
	n := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
	return Pos{Line: uint32(n), Col: uint32(offset - li.starts[n-1] + 1)}
}

// Span returns the SourceSpan covering r.
func (li *LineIndex) Span(r SourceRange) SourceSpan {
	return SourceSpan{Start: li.Pos(r.Start), End: li.Pos(r.End)}
}
