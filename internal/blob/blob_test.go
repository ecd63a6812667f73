package blob

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/treediff/internal/detectlang"
)

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		explicit []string
		want     detectlang.Lang
		wantErr  error
	}{
		{name: "extension", path: "foo.rb", want: detectlang.LangRuby},
		{name: "explicit wins over extension", path: "foo.rb", explicit: []string{"python"}, want: detectlang.LangPython},
		{name: "explicit for extensionless path", path: "Rakefile2", explicit: []string{"ruby"}, want: detectlang.LangRuby},
		{name: "no extension no explicit", path: "README", wantErr: ErrNoLanguages},
		{name: "unknown explicit name", path: "foo.rb", explicit: []string{"klingon"}, wantErr: ErrUnknownLanguage},
		{name: "two explicit names", path: "foo.rb", explicit: []string{"ruby", "python"}, wantErr: ErrMultipleLanguages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, err := ResolveLanguage(tt.path, tt.explicit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lang)
		})
	}
}

func TestMemSourceResolve(t *testing.T) {
	src := &MemSource{
		Blobs: map[string]string{"a.rb": "foo and bar\n"},
		OIDs:  map[string]string{"a.rb": "abc123"},
	}

	b, err := src.Resolve("a.rb")
	require.NoError(t, err)
	assert.Equal(t, "a.rb", b.Path)
	assert.Equal(t, detectlang.LangRuby, b.Language)
	assert.Equal(t, "foo and bar\n", b.Content)
	assert.Equal(t, "abc123", b.OID)

	_, err = src.Resolve("missing.rb")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestMemSourceDefaults(t *testing.T) {
	src := &MemSource{Blobs: map[string]string{"a.rb": ""}}
	b, err := src.Resolve("a.rb")
	require.NoError(t, err)
	assert.Equal(t, ZeroOID, b.OID, "no explicit identity defaults to the zero OID")
}

func TestDevNullResolvesAbsent(t *testing.T) {
	for _, src := range []Source{&MemSource{}, DiskSource{}} {
		b, err := src.Resolve(DevNull)
		require.NoError(t, err)
		assert.Nil(t, b, "%T: /dev/null is absent, never an error", src)
	}
}

func TestDiskSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rb")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	b, err := DiskSource{}.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, detectlang.LangRuby, b.Language)
	assert.Equal(t, "x = 1\n", b.Content)
	assert.Equal(t, ZeroOID, b.OID)

	_, err = DiskSource{}.Resolve(filepath.Join(dir, "missing.rb"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDiskSourceLanguageOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	b, err := DiskSource{Language: detectlang.LangRuby}.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, detectlang.LangRuby, b.Language)
}

func TestResolvePair(t *testing.T) {
	src := &MemSource{Blobs: map[string]string{"a.rb": "a\n", "b.rb": "b\n"}}

	pair, err := ResolvePair(src, "a.rb", "b.rb")
	require.NoError(t, err)
	assert.Equal(t, "a.rb", pair.Before.Path)
	assert.Equal(t, "b.rb", pair.After.Path)

	pair, err = ResolvePair(src, DevNull, "b.rb")
	require.NoError(t, err)
	assert.Nil(t, pair.Before, "one absent side encodes an added file")
	require.NotNil(t, pair.After)

	_, err = ResolvePair(src, DevNull, DevNull)
	assert.ErrorIs(t, err, ErrEmptyPair)

	_, err = ResolvePair(src, "missing.rb", "b.rb")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestPutCapability(t *testing.T) {
	mem := &MemSource{}
	require.NoError(t, Put(mem, "a.rb", "x = 1\n"))
	b, err := mem.Resolve("a.rb")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", b.Content)

	assert.ErrorIs(t, Put(DiskSource{}, "a.rb", ""), ErrWritesNotSupported)
}

func TestOpenHandleCapability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rb")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	rc, err := OpenHandle(DiskSource{}, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "x = 1\n", string(data))

	rc, err = OpenHandle(DiskSource{}, DevNull)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Empty(t, data)

	_, err = OpenHandle(&MemSource{}, "a.rb")
	assert.ErrorIs(t, err, ErrHandleNotSupported)
}

func TestMemSourcePaths(t *testing.T) {
	src := &MemSource{Blobs: map[string]string{"b.rb": "", "a.rb": "", "c.rb": ""}}
	assert.Equal(t, []string{"a.rb", "b.rb", "c.rb"}, src.Paths())
}
