package detectlang

import (
	"testing"
)

func TestDetectFile(t *testing.T) {
	tcs := []struct {
		name string
		path string
		lang Lang
	}{
		{name: "Go", path: "main.go", lang: LangGo},
		{name: "Ruby", path: "script.rb", lang: LangRuby},
		{name: "Python", path: "app.py", lang: LangPython},
		{name: "TypeScript tsx", path: "src/App.tsx", lang: LangTypeScript},
		{name: "C++ header", path: "lib/foo.hpp", lang: LangCpp},
		{name: "no extension", path: "Makefile", lang: LangUnknown},
		{name: "unknown extension", path: "notes.txt", lang: LangUnknown},
		{name: "dev null", path: "/dev/null", lang: LangUnknown},
		{name: "nested path", path: "a/b/c/d.rb", lang: LangRuby},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFile(tc.path); got != tc.lang {
				t.Fatalf("DetectFile(%q) = %q, want %q", tc.path, got, tc.lang)
			}
		})
	}
}

func TestFromName(t *testing.T) {
	tcs := []struct {
		name string
		lang Lang
	}{
		{name: "ruby", lang: LangRuby},
		{name: "Ruby", lang: LangRuby},
		{name: " golang ", lang: LangGo},
		{name: "c++", lang: LangCpp},
		{name: "TYPESCRIPT", lang: LangTypeScript},
		{name: "klingon", lang: LangUnknown},
		{name: "", lang: LangUnknown},
	}
	for _, tc := range tcs {
		if got := FromName(tc.name); got != tc.lang {
			t.Errorf("FromName(%q) = %q, want %q", tc.name, got, tc.lang)
		}
	}
}

func TestNamesCoversEveryLanguage(t *testing.T) {
	names := Names()
	seen := make(map[Lang]bool)
	for _, n := range names {
		lang := FromName(n)
		if lang == LangUnknown {
			t.Fatalf("Names() includes %q which FromName does not recognize", n)
		}
		if seen[lang] {
			t.Fatalf("Names() lists language %q twice", lang)
		}
		seen[lang] = true
	}
	if len(seen) != len(canonicalNames) {
		t.Fatalf("Names() covers %d languages, want %d", len(seen), len(canonicalNames))
	}
}
