// Package treediff computes structural diffs between two syntax trees.
//
// Representation: A Diff is a tree mirroring one or both input Terms. Each node is one of:
//   - OpMerge: the two inputs align at this position. Before/After reference the two
//     aligned Terms (carrying both annotations) and Children hold the recursively
//     diffed child slots.
//   - OpInsert: a subtree present only on the after side. After is set, Before is nil.
//   - OpDelete: a subtree present only on the before side. Before is set, After is nil.
//   - OpReplace: no structural alignment was found. Both sides are set as whole Term
//     subtrees; there is no further recursion beneath a replace.
//
// Invariants:
//   - OpMerge: Before != nil, After != nil, Before.Tag == After.Tag, and Children
//     project (see ProjectBefore/ProjectAfter) back to exactly Before.Children and
//     After.Children.
//   - OpInsert: Before == nil, After != nil, Children == nil.
//   - OpDelete: Before != nil, After == nil, Children == nil.
//   - OpReplace: Before != nil, After != nil, Children == nil.
//
// Totality: DiffTerms terminates and produces a valid Diff for every pair of well-formed
// Terms, including a nil side (whole-file insert/delete). It has no error return.
//
// Determinism: the same two inputs always produce the same Diff; list pairing breaks
// similarity ties by lowest before-index, then lowest after-index.
package treediff

import (
	"fmt"

	"github.com/codalotl/treediff/internal/syntax"
)

// Op is the kind of a Diff node.
type Op int

// Diff node kinds.
const (
	OpMerge Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (o Op) String() string {
	switch o {
	case OpMerge:
		return "merge"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Diff is one node of a structural diff tree. See the package documentation for the
// per-Op invariants.
type Diff struct {
	Op       Op
	Before   *syntax.Term // nil for OpInsert
	After    *syntax.Term // nil for OpDelete
	Children []*Diff      // non-nil only for OpMerge (may be empty for leaf merges)
}

// DiffTerms diffs before against after. Either side may be nil to express a whole-tree
// insert or delete; both nil returns nil.
//
// The result is validated against the projection invariants and DiffTerms panics if
// they do not hold; that indicates a bug in this package, never bad input.
func DiffTerms(before, after *syntax.Term) *Diff {
	d := diffTerms(before, after)
	if d != nil {
		if err := d.validate(before, after); err != nil {
			panic(fmt.Errorf("treediff: validate failed with %v", err))
		}
	}
	return d
}

// DiffLists diffs two ordered lists of subtrees (ex: two statement lists), producing
// one Diff per surviving element plus inserts and deletes for unmatched elements.
// Empty-to-empty yields an empty slice; empty-to-nonempty yields all inserts.
func DiffLists(before, after []*syntax.Term) []*Diff {
	return diffLists(before, after)
}

func diffTerms(before, after *syntax.Term) *Diff {
	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return &Diff{Op: OpInsert, After: after}
	case after == nil:
		return &Diff{Op: OpDelete, Before: before}
	}

	if !alignable(before, after) {
		return &Diff{Op: OpReplace, Before: before, After: after}
	}

	// Aligned leaf-bearing nodes with different leaf text are a replacement, not a
	// merge: merging them would lose the rename (ex: Identifier foo -> bar).
	if before.Tag.HasLeaf() && before.Leaf != after.Leaf {
		return &Diff{Op: OpReplace, Before: before, After: after}
	}

	var children []*Diff
	switch before.Tag.Arity() {
	case syntax.ArityLeaf:
		children = []*Diff{}
	case syntax.ArityFixed:
		children = make([]*Diff, 0, len(before.Children))
		for i := range before.Children {
			children = append(children, diffTerms(before.Children[i], after.Children[i]))
		}
	case syntax.ArityList:
		children = diffLists(before.Children, after.Children)
	}
	return &Diff{Op: OpMerge, Before: before, After: after, Children: children}
}

// alignable implements the generic structural alignment: two nodes align iff their tags
// match (which fixes slot arity). It never inspects leaf content.
func alignable(a, b *syntax.Term) bool {
	if a.Tag != b.Tag {
		return false
	}
	// Fixed-arity tags always agree on child count by construction; list-shaped tags
	// align regardless of length, deferring length differences to the list diff.
	return true
}

// diffLists diffs two ordered lists of subtrees, producing one Diff per list element
// plus inserts/deletes for unmatched elements.
//
// Pairing: every candidate (i, j) gets a similarity score in [0, 1]; pairs scoring at
// least pairThreshold are taken greedily from the highest score down, each index used at
// most once. Output order: after-list order, with deletions of unmatched before
// elements emitted as soon as the before cursor passes them.
func diffLists(before, after []*syntax.Term) []*Diff {
	if len(before) == 0 && len(after) == 0 {
		return []*Diff{}
	}

	type cand struct {
		i, j int
		sim  float64
	}
	var cands []cand
	for i, b := range before {
		for j, a := range after {
			if s := similarity(b, a); s >= pairThreshold {
				cands = append(cands, cand{i: i, j: j, sim: s})
			}
		}
	}
	// Highest similarity first; ties prefer the earliest before index, then the
	// earliest after index, which keeps the pairing stable across runs.
	for x := 1; x < len(cands); x++ {
		for y := x; y > 0; y-- {
			a, b := cands[y-1], cands[y]
			if a.sim > b.sim || (a.sim == b.sim && (a.i < b.i || (a.i == b.i && a.j < b.j))) {
				break
			}
			cands[y-1], cands[y] = b, a
		}
	}

	// Select pairs greedily. A pair is rejected if either index is taken or if it
	// would cross an already-selected pair: the matching must stay order-preserving so
	// that the merged list projects back to both input lists in their original order.
	type pair struct{ i, j int }
	var selected []pair
	matchOf := make(map[int]int) // after index -> before index
	usedBefore := make(map[int]bool)
	usedAfter := make(map[int]bool)
	crosses := func(i, j int) bool {
		for _, p := range selected {
			if (i-p.i)*(j-p.j) <= 0 {
				return true
			}
		}
		return false
	}
	for _, c := range cands {
		if usedBefore[c.i] || usedAfter[c.j] || crosses(c.i, c.j) {
			continue
		}
		usedBefore[c.i] = true
		usedAfter[c.j] = true
		matchOf[c.j] = c.i
		selected = append(selected, pair{i: c.i, j: c.j})
	}

	out := make([]*Diff, 0, len(after)+len(before))
	bi := 0
	emitDeletesBelow := func(limit int) {
		for ; bi < limit; bi++ {
			if !usedBefore[bi] {
				out = append(out, &Diff{Op: OpDelete, Before: before[bi]})
			}
		}
	}
	for j, a := range after {
		i, matched := matchOf[j]
		if !matched {
			out = append(out, &Diff{Op: OpInsert, After: a})
			continue
		}
		if i >= bi {
			emitDeletesBelow(i)
			bi = i + 1
		}
		out = append(out, diffTerms(before[i], a))
	}
	emitDeletesBelow(len(before))
	return out
}
