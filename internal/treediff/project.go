package treediff

import "github.com/codalotl/treediff/internal/syntax"

// ProjectBefore extracts the "before" side of d as a Term: inserts vanish, deletes
// unwrap, replaces keep their before half, and merges rebuild the node from the merged
// children. Returns nil for a pure insert.
func (d *Diff) ProjectBefore() *syntax.Term {
	if d == nil {
		return nil
	}
	switch d.Op {
	case OpInsert:
		return nil
	case OpDelete, OpReplace:
		return d.Before
	}
	children := make([]*syntax.Term, 0, len(d.Children))
	for _, c := range d.Children {
		if t := c.ProjectBefore(); t != nil {
			children = append(children, t)
		}
	}
	return d.Before.WithChildren(children)
}

// ProjectAfter is the symmetric projection: deletes vanish, inserts unwrap, replaces
// keep their after half. Returns nil for a pure delete.
func (d *Diff) ProjectAfter() *syntax.Term {
	if d == nil {
		return nil
	}
	switch d.Op {
	case OpDelete:
		return nil
	case OpInsert, OpReplace:
		return d.After
	}
	children := make([]*syntax.Term, 0, len(d.Children))
	for _, c := range d.Children {
		if t := c.ProjectAfter(); t != nil {
			children = append(children, t)
		}
	}
	return d.After.WithChildren(children)
}

// HasChanges reports whether d contains any insert, delete, or replace anywhere.
// Diffing a tree against an identical copy yields HasChanges == false.
func (d *Diff) HasChanges() bool {
	if d == nil {
		return false
	}
	if d.Op != OpMerge {
		return true
	}
	for _, c := range d.Children {
		if c.HasChanges() {
			return true
		}
	}
	return false
}
