package blob

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/codalotl/treediff/internal/detectlang"
)

// Source resolves a path to a Blob.
//
// Resolve returns (nil, nil) for an absent-but-legitimate path: DevNull always resolves
// that way, expressing "no file on this side". A path the source genuinely cannot find
// returns ErrFileNotFound (wrapped with the path).
type Source interface {
	Resolve(path string) (*Blob, error)
}

// Putter is implemented by sources that accept new content. Sources without it are
// read-only; use Put to get the capability error instead of type-asserting everywhere.
type Putter interface {
	Put(path, content string) error
}

// HandleOpener is implemented by sources that can expose a blob as a stream.
type HandleOpener interface {
	OpenHandle(path string) (io.ReadCloser, error)
}

// Put writes content through src, or returns ErrWritesNotSupported if src is read-only.
func Put(src Source, path, content string) error {
	p, ok := src.(Putter)
	if !ok {
		return ErrWritesNotSupported
	}
	return p.Put(path, content)
}

// OpenHandle opens a blob as a stream through src, or returns ErrHandleNotSupported.
func OpenHandle(src Source, path string) (io.ReadCloser, error) {
	h, ok := src.(HandleOpener)
	if !ok {
		return nil, ErrHandleNotSupported
	}
	return h.OpenHandle(path)
}

// ResolvePair resolves both sides of a before/after pair through src. Both sides
// resolving to absent is an ErrEmptyPair; one absent side is the normal encoding of an
// added or removed file.
func ResolvePair(src Source, beforePath, afterPath string) (Pair, error) {
	before, err := src.Resolve(beforePath)
	if err != nil {
		return Pair{}, err
	}
	after, err := src.Resolve(afterPath)
	if err != nil {
		return Pair{}, err
	}
	if before == nil && after == nil {
		return Pair{}, fmt.Errorf("%w: %q and %q", ErrEmptyPair, beforePath, afterPath)
	}
	return Pair{Before: before, After: after}, nil
}

// DiskSource resolves paths against the filesystem. Blobs get ZeroOID (on-disk files
// have no commit identity). If Language is set it overrides extension detection.
type DiskSource struct {
	Language detectlang.Lang
}

func (s DiskSource) Resolve(path string) (*Blob, error) {
	if path == DevNull {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	lang := s.Language
	if lang == detectlang.LangUnknown {
		lang = detectlang.DetectFile(path)
	}
	return &Blob{Path: path, Language: lang, Content: string(data), OID: ZeroOID}, nil
}

func (s DiskSource) OpenHandle(path string) (io.ReadCloser, error) {
	if path == DevNull {
		return io.NopCloser(strings.NewReader("")), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrFileNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

// MemSource resolves paths against an in-memory map. It is the source used by tests
// and by callers that already hold file contents (ex: parsed out of a changeset).
type MemSource struct {
	Language detectlang.Lang
	Blobs    map[string]string // path -> content
	OIDs     map[string]string // optional path -> content identity; defaults to ZeroOID
}

func (s *MemSource) Resolve(path string) (*Blob, error) {
	if path == DevNull {
		return nil, nil
	}
	content, ok := s.Blobs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, path)
	}
	lang := s.Language
	if lang == detectlang.LangUnknown {
		lang = detectlang.DetectFile(path)
	}
	oid := s.OIDs[path]
	if oid == "" {
		oid = ZeroOID
	}
	return &Blob{Path: path, Language: lang, Content: content, OID: oid}, nil
}

func (s *MemSource) Put(path, content string) error {
	if s.Blobs == nil {
		s.Blobs = make(map[string]string)
	}
	s.Blobs[path] = content
	return nil
}

// Paths returns the paths s can resolve, sorted.
func (s *MemSource) Paths() []string {
	paths := make([]string, 0, len(s.Blobs))
	for p := range s.Blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
