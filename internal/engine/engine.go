// Package engine orchestrates parse and diff requests: it resolves blobs, parses them,
// runs the structural diff, and hands the results to a renderer.
//
// Requests over several files fan out to one goroutine per file (the jobs share no
// state), but output always follows the caller's input order, never completion order.
// Any resolution or parse error aborts the whole request before anything is rendered.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/codalotl/treediff/internal/blob"
	"github.com/codalotl/treediff/internal/parse"
	"github.com/codalotl/treediff/internal/render"
	"github.com/codalotl/treediff/internal/simplelogger"
	"github.com/codalotl/treediff/internal/syntax"
	"github.com/codalotl/treediff/internal/treediff"
)

// Format selects the output renderer.
type Format string

const (
	FormatJSON        Format = "json"
	FormatSExpression Format = "sexpression"
)

// ParseRequest asks for the parse trees of a set of files.
type ParseRequest struct {
	Source    blob.Source
	Paths     []string
	Languages []string // explicit language names; empty means detect per file
	Format    Format
}

// DiffRequest asks for structural diffs of before/after path pairs.
type DiffRequest struct {
	Source    blob.Source
	Pairs     [][2]string // {beforePath, afterPath}; either side may be blob.DevNull
	Languages []string
	Format    Format
}

// Parse resolves and parses every requested path and renders the trees in input order.
// Paths that resolve to absent (blob.DevNull) are skipped. Zero resolved files render
// the empty encoding ("[]\n" for JSON, "" for s-expressions).
func Parse(ctx context.Context, req ParseRequest) (string, error) {
	type result struct {
		path string
		term *syntax.Term
	}
	results := make([]*result, len(req.Paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range req.Paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := req.Source.Resolve(path)
			if err != nil {
				return err
			}
			if b == nil {
				return nil
			}
			term, err := parseBlob(b, req.Languages)
			if err != nil {
				return err
			}
			results[i] = &result{path: b.Path, term: term}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var files []render.ParsedFile
	for _, r := range results {
		if r != nil {
			files = append(files, render.ParsedFile{Path: r.path, Term: r.term})
		}
	}
	simplelogger.Log("engine: parsed %d of %d requested paths", len(files), len(req.Paths))

	switch req.Format {
	case FormatSExpression:
		var out string
		for _, f := range files {
			out += render.SExpr(f.Term)
		}
		return out, nil
	default:
		return render.ParseTreesJSON(files)
	}
}

// Diff resolves, parses, and diffs every requested pair and renders the diffs in input
// order. An absent side produces a whole-tree insert or delete. Zero pairs render the
// empty encoding ({"oids":[],"paths":[],"rows":[]} for JSON, "" for s-expressions).
func Diff(ctx context.Context, req DiffRequest) (string, error) {
	results := make([]render.FileDiff, len(req.Pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, pair := range req.Pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			resolved, err := blob.ResolvePair(req.Source, pair[0], pair[1])
			if err != nil {
				return err
			}
			fd, err := diffPair(resolved, req.Languages)
			if err != nil {
				return err
			}
			results[i] = fd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	simplelogger.Log("engine: diffed %d pairs", len(results))

	switch req.Format {
	case FormatSExpression:
		var out string
		for _, r := range results {
			out += render.DiffSExpr(r.Diff)
		}
		return out, nil
	default:
		return render.DiffsJSON(results)
	}
}

func parseBlob(b *blob.Blob, explicit []string) (*syntax.Term, error) {
	lang := b.Language
	if len(explicit) > 0 || lang == "" {
		var err error
		lang, err = blob.ResolveLanguage(b.Path, explicit)
		if err != nil {
			return nil, err
		}
	}
	term, err := parse.Parse(lang, b.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", b.Path, err)
	}
	return term, nil
}

func diffPair(p blob.Pair, explicit []string) (render.FileDiff, error) {
	fd := render.FileDiff{
		BeforeOID:  blob.ZeroOID,
		AfterOID:   blob.ZeroOID,
		BeforePath: blob.DevNull, // overwritten when the side is present
		AfterPath:  blob.DevNull,
	}
	var beforeTerm, afterTerm *syntax.Term
	if p.Before != nil {
		t, err := parseBlob(p.Before, explicit)
		if err != nil {
			return render.FileDiff{}, err
		}
		beforeTerm = t
		fd.BeforePath = p.Before.Path
		fd.BeforeSrc = p.Before.Content
		fd.BeforeOID = p.Before.OID
	}
	if p.After != nil {
		t, err := parseBlob(p.After, explicit)
		if err != nil {
			return render.FileDiff{}, err
		}
		afterTerm = t
		fd.AfterPath = p.After.Path
		fd.AfterSrc = p.After.Content
		fd.AfterOID = p.After.OID
	}
	fd.Diff = treediff.DiffTerms(beforeTerm, afterTerm)
	return fd, nil
}
