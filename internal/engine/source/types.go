package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File is one member of the source set: identity plus immutable content.
// Content is only needed during the extraction/scanning pass and is dropped
// afterwards; everything downstream works on derived records.
type File struct {
	Path     string
	Language string
	Content  []byte
}

func NewFile(path string, content []byte) *File {
	return &File{
		Path:     filepath.ToSlash(filepath.Clean(path)),
		Language: DetectLanguage(path),
		Content:  content,
	}
}

// SupportsJSX reports whether the file can contain JSX elements, which gates
// component extraction for plain function/arrow bindings.
func (f *File) SupportsJSX() bool {
	return f.Language == "tsx" || f.Language == "jsx"
}

func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return "typescript"
	case ".tsx":
		return "tsx"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".jsx":
		return "jsx"
	}
	return ""
}

func IsSupportedPath(path string) bool {
	return DetectLanguage(path) != ""
}

type DeclKind int

const (
	KindComponent DeclKind = iota
	KindType
	KindInterface
	KindFunction
	KindVariable
	KindEnum
)

func (k DeclKind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindType:
		return "type"
	case KindInterface:
		return "interface"
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindEnum:
		return "enum"
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

// Kinds returns every declaration kind in report order.
func Kinds() []DeclKind {
	return []DeclKind{KindComponent, KindType, KindInterface, KindFunction, KindVariable, KindEnum}
}

// Declaration is a named top-level program element. Immutable once produced by
// the extractor.
type Declaration struct {
	ID       string
	Name     string
	Kind     DeclKind
	File     string
	Line     int
	Exported bool
	// Ignored is set when the declaration carries the @tsreap-ignore directive.
	Ignored bool
}

// DeclID is unique per (file, name, kind).
func DeclID(file, name string, kind DeclKind) string {
	return file + "#" + name + "#" + kind.String()
}

// Occurrence is a token-level identifier appearance. Line and Column are
// 1-based.
type Occurrence struct {
	Text   string
	File   string
	Line   int
	Column int
}

// ImportBinding records one locally bound import name, used by the usage graph
// to resolve an occurrence to its nearest declaring file.
type ImportBinding struct {
	Local     string
	Imported  string
	Specifier string
}

// Partial is the self-contained result of processing a single file. Workers
// produce Partials independently; nothing in a Partial references shared state.
type Partial struct {
	Path         string
	Declarations []Declaration
	Occurrences  []Occurrence
	Imports      []ImportBinding
}
