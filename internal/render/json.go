package render

import (
	"bytes"
	"encoding/json"

	"github.com/codalotl/treediff/internal/syntax"
	"github.com/codalotl/treediff/internal/treediff"
)

// termJSON is the wire shape of one syntax node. Field order fixes JSON key order for
// byte-exact golden comparisons: category, children, sourceRange, sourceSpan, leaf data.
type termJSON struct {
	Category    string      `json:"category"`
	Children    []*nodeJSON `json:"children"`
	SourceRange [2]int      `json:"sourceRange"`
	SourceSpan  spanJSON    `json:"sourceSpan"`
	Identifier  string      `json:"identifier,omitempty"` // leaf text of Identifier nodes
	Text        string      `json:"text,omitempty"`       // leaf text of other leaf-bearing nodes
}

type spanJSON struct {
	Start [2]uint32 `json:"start"`
	End   [2]uint32 `json:"end"`
}

// nodeJSON is one node of a rendered Term or Diff tree: either a plain node (Term nodes
// and merges) or a single-key patch wrapper ({"insert": ...}, {"delete": ...},
// {"replace": {"before": ..., "after": ...}}).
type nodeJSON struct {
	plain   *termJSON
	insert  *nodeJSON
	delete  *nodeJSON
	replace *replaceJSON
}

type replaceJSON struct {
	Before *nodeJSON `json:"before"`
	After  *nodeJSON `json:"after"`
}

func (n *nodeJSON) MarshalJSON() ([]byte, error) {
	switch {
	case n.insert != nil:
		return marshalNoEscape(struct {
			Insert *nodeJSON `json:"insert"`
		}{Insert: n.insert})
	case n.delete != nil:
		return marshalNoEscape(struct {
			Delete *nodeJSON `json:"delete"`
		}{Delete: n.delete})
	case n.replace != nil:
		return marshalNoEscape(struct {
			Replace *replaceJSON `json:"replace"`
		}{Replace: n.replace})
	default:
		return marshalNoEscape(n.plain)
	}
}

// marshalNoEscape is json.Marshal without HTML escaping. Marshal always escapes < > &,
// which would corrupt operator categories like "<" and "&&" even under an outer encoder
// with escaping off, since MarshalJSON output is spliced in verbatim.
func marshalNoEscape(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

func termToJSON(t *syntax.Term) *nodeJSON {
	out := &termJSON{
		Category:    t.Category(),
		Children:    []*nodeJSON{},
		SourceRange: [2]int{t.Ann.Range.Start, t.Ann.Range.End},
		SourceSpan: spanJSON{
			Start: [2]uint32{t.Ann.Span.Start.Line, t.Ann.Span.Start.Col},
			End:   [2]uint32{t.Ann.Span.End.Line, t.Ann.Span.End.Col},
		},
	}
	if t.Tag == syntax.TagIdentifier {
		out.Identifier = t.Leaf
	} else if t.Tag.HasLeaf() && t.Tag != syntax.TagOperator {
		// Operator leaf text already appears as the category label.
		out.Text = t.Leaf
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, termToJSON(c))
	}
	return &nodeJSON{plain: out}
}

func diffToJSON(d *treediff.Diff) *nodeJSON {
	switch d.Op {
	case treediff.OpInsert:
		return &nodeJSON{insert: termToJSON(d.After)}
	case treediff.OpDelete:
		return &nodeJSON{delete: termToJSON(d.Before)}
	case treediff.OpReplace:
		return &nodeJSON{replace: &replaceJSON{Before: termToJSON(d.Before), After: termToJSON(d.After)}}
	}
	// Merges render as plain nodes carrying the after-side annotation.
	t := d.After
	out := &termJSON{
		Category:    t.Category(),
		Children:    []*nodeJSON{},
		SourceRange: [2]int{t.Ann.Range.Start, t.Ann.Range.End},
		SourceSpan: spanJSON{
			Start: [2]uint32{t.Ann.Span.Start.Line, t.Ann.Span.Start.Col},
			End:   [2]uint32{t.Ann.Span.End.Line, t.Ann.Span.End.Col},
		},
	}
	if t.Tag == syntax.TagIdentifier {
		out.Identifier = t.Leaf
	} else if t.Tag.HasLeaf() && t.Tag != syntax.TagOperator {
		out.Text = t.Leaf
	}
	for _, c := range d.Children {
		out.Children = append(out.Children, diffToJSON(c))
	}
	return &nodeJSON{plain: out}
}

// ParsedFile pairs a file path with its parse tree for JSON rendering.
type ParsedFile struct {
	Path string
	Term *syntax.Term
}

// ParseTreesJSON renders parsed files as a JSON array of {filePath, programNode}
// objects, in input order, newline-terminated. Zero files renders "[]\n".
func ParseTreesJSON(files []ParsedFile) (string, error) {
	type entry struct {
		FilePath    string    `json:"filePath"`
		ProgramNode *nodeJSON `json:"programNode"`
	}
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, entry{FilePath: f.Path, ProgramNode: termToJSON(f.Term)})
	}
	return marshalLine(entries)
}

// FileDiff is one before/after file pair's diff prepared for JSON rendering. OIDs are
// content-identity hashes; use ZeroOID for sources with no commit identity.
type FileDiff struct {
	BeforeOID  string
	AfterOID   string
	BeforePath string
	AfterPath  string
	BeforeSrc  string
	AfterSrc   string
	Diff       *treediff.Diff
}

// diffJSON is the top-level wire shape of one file pair's diff.
type diffJSON struct {
	OIDs  []string    `json:"oids"`
	Paths []string    `json:"paths"`
	Rows  [][]rowJSON `json:"rows"`
}

// DiffsJSON renders file-pair diffs, newline-terminated. One pair renders a single
// {oids, paths, rows} object; several render an array of such objects in input order;
// zero pairs render the defined empty encoding {"oids":[],"paths":[],"rows":[]}.
func DiffsJSON(pairs []FileDiff) (string, error) {
	if len(pairs) == 0 {
		return marshalLine(diffJSON{OIDs: []string{}, Paths: []string{}, Rows: [][]rowJSON{}})
	}
	objs := make([]diffJSON, 0, len(pairs))
	for _, p := range pairs {
		objs = append(objs, diffJSON{
			OIDs:  []string{p.BeforeOID, p.AfterOID},
			Paths: []string{p.BeforePath, p.AfterPath},
			Rows:  hunkRows(Hunks(p.Diff, p.BeforeSrc, p.AfterSrc)),
		})
	}
	if len(objs) == 1 {
		return marshalLine(objs[0])
	}
	return marshalLine(objs)
}

func marshalLine(v any) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return b.String(), nil // Encode appends the trailing newline.
}
