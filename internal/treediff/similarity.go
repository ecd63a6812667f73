package treediff

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/codalotl/treediff/internal/syntax"
)

// pairThreshold is the minimum similarity for two list elements to be paired. Elements
// below it become an unrelated delete + insert.
const pairThreshold = 0.5

// Similarity weights. They must sum to 1 so similarity stays in [0, 1].
const (
	weightTag        = 0.30 // same syntactic construct
	weightChildCount = 0.15 // similar direct child counts
	weightTokens     = 0.40 // overlapping leaf text
	weightSize       = 0.15 // similar subtree sizes
)

// similarity scores how plausible it is that b evolved into a, in [0, 1]. Structurally
// identical subtrees score exactly 1 even if they moved to a different source position.
func similarity(b, a *syntax.Term) float64 {
	if syntax.EqualIgnoringPosition(b, a) {
		return 1.0
	}

	var s float64
	if b.Tag == a.Tag {
		s += weightTag
	}
	s += weightChildCount * ratio(len(b.Children), len(a.Children))
	s += weightTokens * tokenSimilarity(b, a)
	s += weightSize * ratio(b.Size(), a.Size())
	return s
}

// ratio returns min/max of two non-negative counts, treating 0/0 as identical.
func ratio(x, y int) float64 {
	if x == y {
		return 1.0
	}
	lo, hi := x, y
	if lo > hi {
		lo, hi = hi, lo
	}
	return float64(lo) / float64(hi)
}

// tokenSimilarity compares the leaf text of two subtrees: each side's leaf strings are
// word-segmented (UAX #29), joined into one token stream, and the two streams are
// character-diffed; the score is the fraction of the combined streams that is common.
func tokenSimilarity(b, a *syntax.Term) float64 {
	bs := tokenStream(b)
	as := tokenStream(a)
	if bs == "" && as == "" {
		return 1.0
	}
	if bs == "" || as == "" {
		return 0.0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(bs, as, false)
	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len(d.Text)
		}
	}
	return float64(2*common) / float64(len(bs)+len(as))
}

func tokenStream(t *syntax.Term) string {
	var toks []string
	for _, leaf := range t.LeafText(nil) {
		iter := words.FromString(leaf)
		for iter.Next() {
			tok := strings.TrimSpace(iter.Value())
			if tok != "" {
				toks = append(toks, tok)
			}
		}
	}
	return strings.Join(toks, " ")
}
