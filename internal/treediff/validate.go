package treediff

import (
	"fmt"

	"github.com/codalotl/treediff/internal/syntax"
)

// validate checks the per-Op invariants and the round-trip projections against the
// original inputs, returning an error on the first violation.
func (d *Diff) validate(before, after *syntax.Term) error {
	if err := d.check(); err != nil {
		return err
	}
	if got := d.ProjectBefore(); !syntax.Equal(got, before) {
		return fmt.Errorf("before projection does not reconstruct the input")
	}
	if got := d.ProjectAfter(); !syntax.Equal(got, after) {
		return fmt.Errorf("after projection does not reconstruct the input")
	}
	return nil
}

func (d *Diff) check() error {
	switch d.Op {
	case OpMerge:
		if d.Before == nil || d.After == nil {
			return fmt.Errorf("merge: requires both sides")
		}
		if d.Before.Tag != d.After.Tag {
			return fmt.Errorf("merge: tags differ (%s vs %s)", d.Before.Category(), d.After.Category())
		}
		if d.Children == nil {
			return fmt.Errorf("merge: requires non-nil Children")
		}
		for i, c := range d.Children {
			if c == nil {
				return fmt.Errorf("merge: child %d is nil", i)
			}
			if err := c.check(); err != nil {
				return err
			}
		}
	case OpInsert:
		if d.Before != nil || d.After == nil || d.Children != nil {
			return fmt.Errorf("insert: requires Before==nil, After!=nil, Children==nil")
		}
	case OpDelete:
		if d.Before == nil || d.After != nil || d.Children != nil {
			return fmt.Errorf("delete: requires Before!=nil, After==nil, Children==nil")
		}
	case OpReplace:
		if d.Before == nil || d.After == nil || d.Children != nil {
			return fmt.Errorf("replace: requires both sides and Children==nil")
		}
	default:
		return fmt.Errorf("unknown op %d", int(d.Op))
	}
	return nil
}
