package render

import (
	"strings"

	"github.com/codalotl/treediff/internal/syntax"
	"github.com/codalotl/treediff/internal/treediff"
)

// contextSize is how many unchanged rows are kept on each side of a changed run.
// Two changed runs whose context ranges touch or overlap coalesce into one hunk.
const contextSize = 3

// Row pairs a possibly-absent before line with a possibly-absent after line.
//
// Invariants:
//   - Kind == OpMerge: both line numbers set; the row is unchanged context.
//   - Kind == OpInsert: AfterLine set, BeforeLine == 0.
//   - Kind == OpDelete: BeforeLine set, AfterLine == 0.
//   - Kind == OpReplace: both set; the line changed on both sides.
type Row struct {
	BeforeLine int // 1-based line number in the before text; 0 when absent
	AfterLine  int // 1-based line number in the after text; 0 when absent
	Kind       treediff.Op
	BeforeText string         // the before line without its trailing newline; "" when absent
	AfterText  string         // the after line without its trailing newline; "" when absent
	BeforeCats []string       // categories of patched nodes covering the before line, in traversal order
	AfterCats  []string       // categories of patched nodes covering the after line
	BeforeNode *treediff.Diff // topmost patch covering the before line; nil for context rows
	AfterNode  *treediff.Diff // topmost patch covering the after line; nil for context rows
}

// Hunk is a maximal run of changed rows plus up to contextSize unchanged rows on each
// side. BeforeStart/AfterStart are the first present line numbers on each side (0 if
// the hunk has no lines on that side).
type Hunk struct {
	BeforeStart int
	AfterStart  int
	Rows        []Row
}

// Hunks projects d plus the two original source texts into context-bounded hunks of
// line-paired rows. A nil or change-free diff yields no hunks.
func Hunks(d *treediff.Diff, beforeSrc, afterSrc string) []Hunk {
	if d == nil {
		return nil
	}
	beforeLines := splitLines(beforeSrc)
	afterLines := splitLines(afterSrc)

	beforeMarks := newLineMarks()
	afterMarks := newLineMarks()
	markPatches(d, beforeMarks, afterMarks)

	rows := pairRows(beforeLines, afterLines, beforeMarks, afterMarks)
	return groupHunks(rows)
}

// lineMarks accumulates, per 1-based source line on one side, the categories of patch
// nodes covering the line and the topmost (first-visited) patch node itself.
type lineMarks struct {
	cats  map[int][]string
	nodes map[int]*treediff.Diff
}

func newLineMarks() *lineMarks {
	return &lineMarks{cats: make(map[int][]string), nodes: make(map[int]*treediff.Diff)}
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// markPatches records, per source line on each side, the patch nodes covering that
// line. Merge nodes contribute nothing themselves; their children are walked.
func markPatches(d *treediff.Diff, beforeMarks, afterMarks *lineMarks) {
	switch d.Op {
	case treediff.OpMerge:
		for _, c := range d.Children {
			markPatches(c, beforeMarks, afterMarks)
		}
	case treediff.OpInsert:
		markLines(afterMarks, d.After, d)
	case treediff.OpDelete:
		markLines(beforeMarks, d.Before, d)
	case treediff.OpReplace:
		markLines(beforeMarks, d.Before, d)
		markLines(afterMarks, d.After, d)
	}
}

func markLines(marks *lineMarks, t *syntax.Term, d *treediff.Diff) {
	start, end := spanLines(t.Ann.Span)
	for line := start; line <= end; line++ {
		marks.cats[line] = append(marks.cats[line], t.Category())
		if marks.nodes[line] == nil {
			marks.nodes[line] = d
		}
	}
}

// spanLines returns the inclusive 1-based line range covered by span. The span's End is
// one past the last byte, so a node ending exactly at a line start does not cover that
// line.
func spanLines(span syntax.SourceSpan) (int, int) {
	start := int(span.Start.Line)
	end := int(span.End.Line)
	if end > start && span.End.Col == 1 {
		end--
	}
	return start, end
}

func pairRows(beforeLines, afterLines []string, beforeMarks, afterMarks *lineMarks) []Row {
	var rows []Row
	bi, ai := 1, 1
	for bi <= len(beforeLines) || ai <= len(afterLines) {
		bChanged := bi <= len(beforeLines) && len(beforeMarks.cats[bi]) > 0
		aChanged := ai <= len(afterLines) && len(afterMarks.cats[ai]) > 0
		switch {
		case bChanged && aChanged:
			rows = append(rows, Row{
				BeforeLine: bi, AfterLine: ai, Kind: treediff.OpReplace,
				BeforeText: beforeLines[bi-1], AfterText: afterLines[ai-1],
				BeforeCats: beforeMarks.cats[bi], AfterCats: afterMarks.cats[ai],
				BeforeNode: beforeMarks.nodes[bi], AfterNode: afterMarks.nodes[ai],
			})
			bi++
			ai++
		case bChanged:
			rows = append(rows, Row{
				BeforeLine: bi, Kind: treediff.OpDelete,
				BeforeText: beforeLines[bi-1], BeforeCats: beforeMarks.cats[bi],
				BeforeNode: beforeMarks.nodes[bi],
			})
			bi++
		case aChanged:
			rows = append(rows, Row{
				AfterLine: ai, Kind: treediff.OpInsert,
				AfterText: afterLines[ai-1], AfterCats: afterMarks.cats[ai],
				AfterNode: afterMarks.nodes[ai],
			})
			ai++
		case bi <= len(beforeLines) && ai <= len(afterLines):
			rows = append(rows, Row{
				BeforeLine: bi, AfterLine: ai, Kind: treediff.OpMerge,
				BeforeText: beforeLines[bi-1], AfterText: afterLines[ai-1],
			})
			bi++
			ai++
		case bi <= len(beforeLines):
			// Unmarked trailing before line with no after counterpart (ex: the
			// after text is shorter without a patch covering the excess). Treat
			// as deleted so every line lands in exactly one row.
			rows = append(rows, Row{
				BeforeLine: bi, Kind: treediff.OpDelete,
				BeforeText: beforeLines[bi-1],
			})
			bi++
		default:
			rows = append(rows, Row{
				AfterLine: ai, Kind: treediff.OpInsert,
				AfterText: afterLines[ai-1],
			})
			ai++
		}
	}
	return rows
}

func groupHunks(rows []Row) []Hunk {
	type span struct{ start, end int } // inclusive row index range
	var spans []span
	for i, r := range rows {
		if r.Kind == treediff.OpMerge {
			continue
		}
		start := i - contextSize
		if start < 0 {
			start = 0
		}
		end := i + contextSize
		if end > len(rows)-1 {
			end = len(rows) - 1
		}
		if len(spans) > 0 && start <= spans[len(spans)-1].end+1 {
			spans[len(spans)-1].end = end
		} else {
			spans = append(spans, span{start: start, end: end})
		}
	}

	var hunks []Hunk
	for _, s := range spans {
		h := Hunk{Rows: rows[s.start : s.end+1]}
		for _, r := range h.Rows {
			if h.BeforeStart == 0 && r.BeforeLine != 0 {
				h.BeforeStart = r.BeforeLine
			}
			if h.AfterStart == 0 && r.AfterLine != 0 {
				h.AfterStart = r.AfterLine
			}
			if h.BeforeStart != 0 && h.AfterStart != 0 {
				break
			}
		}
		hunks = append(hunks, h)
	}
	return hunks
}

// cellJSON is one side of a rendered row. Number restarts from 1 within each hunk.
// Node holds the topmost patch covering the line, wrapped per its kind ({"insert": ...}
// and so on); it is omitted for context rows.
type cellJSON struct {
	Number     int       `json:"number"`
	Kind       string    `json:"kind"`
	Line       string    `json:"line"`
	Categories []string  `json:"categories"`
	Node       *nodeJSON `json:"node,omitempty"`
}

// rowJSON is [beforeCell, afterCell]; an absent side is null.
type rowJSON [2]*cellJSON

// hunkRows converts hunks to their wire shape: one row-array per hunk.
func hunkRows(hunks []Hunk) [][]rowJSON {
	out := make([][]rowJSON, 0, len(hunks))
	for _, h := range hunks {
		rows := make([]rowJSON, 0, len(h.Rows))
		for i, r := range h.Rows {
			var rj rowJSON
			if r.BeforeLine != 0 {
				rj[0] = &cellJSON{Number: i + 1, Kind: r.Kind.String(), Line: r.BeforeText, Categories: emptyIfNil(r.BeforeCats)}
				if r.BeforeNode != nil {
					rj[0].Node = diffToJSON(r.BeforeNode)
				}
			}
			if r.AfterLine != 0 {
				rj[1] = &cellJSON{Number: i + 1, Kind: r.Kind.String(), Line: r.AfterText, Categories: emptyIfNil(r.AfterCats)}
				if r.AfterNode != nil {
					rj[1].Node = diffToJSON(r.AfterNode)
				}
			}
			rows = append(rows, rj)
		}
		out = append(out, rows)
	}
	return out
}

func emptyIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
