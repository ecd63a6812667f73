// Package parse turns source text into syntax Terms.
//
// The engine is language-independent: it consumes any Term regardless of which grammar
// produced it. This package defines the parsing contract (a Func per language, keyed by
// detectlang.Lang) and ships one built-in reference parser for a small Ruby-flavored
// grammar (see ruby.go). Parsers for real grammars register themselves the same way.
package parse

import (
	"errors"
	"fmt"

	"github.com/codalotl/treediff/internal/detectlang"
	"github.com/codalotl/treediff/internal/syntax"
)

// Func parses src into a Term. It must be deterministic: identical input produces an
// identical Term. A failure is reported as an error, never as a partial tree.
type Func func(src string) (*syntax.Term, error)

// ErrUnsupportedLanguage is returned by Parse when no parser is registered for the
// requested language.
var ErrUnsupportedLanguage = errors.New("parse: unsupported language")

var registry = map[detectlang.Lang]Func{
	detectlang.LangRuby: Ruby,
}

// Supported reports whether a parser is registered for lang.
func Supported(lang detectlang.Lang) bool {
	_, ok := registry[lang]
	return ok
}

// Parse parses src as lang. Returns ErrUnsupportedLanguage (wrapped with the language
// name) if no parser is registered for lang.
func Parse(lang detectlang.Lang, src string) (*syntax.Term, error) {
	fn, ok := registry[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(lang))
	}
	return fn(src)
}
