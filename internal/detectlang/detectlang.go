// Package detectlang maps file paths and user-supplied language names to the languages
// the engine knows about. Detection is purely lexical (extension-based); it never reads
// file contents.
package detectlang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Lang represents a detected programming language.
type Lang string

const (
	LangUnknown    Lang = ""
	LangGo         Lang = "go"
	LangRuby       Lang = "rb"
	LangPython     Lang = "py"
	LangRust       Lang = "rs"
	LangJavaScript Lang = "js"
	LangTypeScript Lang = "ts"
	LangJava       Lang = "java"
	LangC          Lang = "c"
	LangCpp        Lang = "cpp"
	LangCSharp     Lang = "cs"
	LangPHP        Lang = "php"
	LangSwift      Lang = "swift"
	LangKotlin     Lang = "kt"
	LangScala      Lang = "scala"
	LangObjectiveC Lang = "objc"
)

var extToLang = map[string]Lang{
	".go":    LangGo,
	".rb":    LangRuby,
	".py":    LangPython,
	".rs":    LangRust,
	".js":    LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".jsx":   LangJavaScript,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".java":  LangJava,
	".c":     LangC,
	".cpp":   LangCpp,
	".cc":    LangCpp,
	".cxx":   LangCpp,
	".hpp":   LangCpp,
	".hh":    LangCpp,
	".hxx":   LangCpp,
	".cs":    LangCSharp,
	".csx":   LangCSharp,
	".php":   LangPHP,
	".phtml": LangPHP,
	".swift": LangSwift,
	".kt":    LangKotlin,
	".kts":   LangKotlin,
	".scala": LangScala,
	".m":     LangObjectiveC,
	".mm":    LangObjectiveC,
}

// nameToLang holds the user-facing names accepted by FromName. The first name listed
// for a language in canonicalNames is the one shown in error messages.
var nameToLang = map[string]Lang{
	"go":         LangGo,
	"golang":     LangGo,
	"ruby":       LangRuby,
	"rb":         LangRuby,
	"python":     LangPython,
	"py":         LangPython,
	"rust":       LangRust,
	"rs":         LangRust,
	"javascript": LangJavaScript,
	"js":         LangJavaScript,
	"typescript": LangTypeScript,
	"ts":         LangTypeScript,
	"java":       LangJava,
	"c":          LangC,
	"cpp":        LangCpp,
	"c++":        LangCpp,
	"csharp":     LangCSharp,
	"cs":         LangCSharp,
	"php":        LangPHP,
	"swift":      LangSwift,
	"kotlin":     LangKotlin,
	"kt":         LangKotlin,
	"scala":      LangScala,
	"objc":       LangObjectiveC,
}

var canonicalNames = []string{
	"go", "ruby", "python", "rust", "javascript", "typescript", "java",
	"c", "cpp", "csharp", "php", "swift", "kotlin", "scala", "objc",
}

// DetectFile returns the language indicated by path's extension, or LangUnknown. The
// path may be relative; only its extension is inspected. The sentinel path /dev/null
// detects as LangUnknown, matching its role as "no file".
func DetectFile(path string) Lang {
	return extToLang[filepath.Ext(path)]
}

// FromName maps a user-supplied language name (ex: "ruby", "go", "c++") to a Lang,
// case-insensitively. Returns LangUnknown for names it does not recognize.
func FromName(name string) Lang {
	return nameToLang[strings.ToLower(strings.TrimSpace(name))]
}

// Names returns the user-facing names accepted by FromName, one per language, sorted.
// Useful for error messages listing valid --language values.
func Names() []string {
	names := make([]string, len(canonicalNames))
	copy(names, canonicalNames)
	sort.Strings(names)
	return names
}
