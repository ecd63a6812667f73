// Package blob resolves file paths to language-tagged file contents for the engine.
//
// The diff/render core is total and never raises domain errors; every error in this
// taxonomy originates here, at the boundary that turns paths into blobs, and is
// surfaced to the caller before the core runs (fail fast, no partial output).
package blob

import (
	"errors"
	"fmt"

	"github.com/codalotl/treediff/internal/detectlang"
)

// DevNull is the sentinel path that always resolves to "absent" rather than an error.
// Passing it as one side of a pair expresses a pure insert or delete of the other side.
const DevNull = "/dev/null"

// ZeroOID is the 40-character content-identity sentinel used when a blob has no commit
// identity (ex: it was read from the working tree).
const ZeroOID = "0000000000000000000000000000000000000000"

// The error taxonomy of the collaborator layer.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrEmptyPair          = errors.New("both sides of pair are absent")
	ErrNoLanguages        = errors.New("no languages specified")
	ErrUnknownLanguage    = errors.New("unknown language")
	ErrMultipleLanguages  = errors.New("multiple languages specified")
	ErrHandleNotSupported = errors.New("reading from a handle is not supported by this source")
	ErrWritesNotSupported = errors.New("writes are not supported by this source")
)

// Blob is a resolved file: a path, its language, its exact content, and a content
// identity (a commit object ID, or ZeroOID when not applicable).
type Blob struct {
	Path     string
	Language detectlang.Lang
	Content  string
	OID      string
}

// Pair is a before/after pair of blobs. A nil side means the file is absent on that
// side (added or removed file).
type Pair struct {
	Before *Blob
	After  *Blob
}

// ResolveLanguage determines the language for path. Explicit language names win over
// the path's extension.
//
// Errors: ErrMultipleLanguages if more than one explicit name is given,
// ErrUnknownLanguage (wrapped with the name) if an explicit name is not recognized, and
// ErrNoLanguages if no explicit name is given and the extension decides nothing.
func ResolveLanguage(path string, explicit []string) (detectlang.Lang, error) {
	switch len(explicit) {
	case 0:
		lang := detectlang.DetectFile(path)
		if lang == detectlang.LangUnknown {
			return detectlang.LangUnknown, fmt.Errorf("%w for %q", ErrNoLanguages, path)
		}
		return lang, nil
	case 1:
		lang := detectlang.FromName(explicit[0])
		if lang == detectlang.LangUnknown {
			return detectlang.LangUnknown, fmt.Errorf("%w: %q", ErrUnknownLanguage, explicit[0])
		}
		return lang, nil
	default:
		return detectlang.LangUnknown, fmt.Errorf("%w: %v", ErrMultipleLanguages, explicit)
	}
}
