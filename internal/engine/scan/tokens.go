// Package scan produces identifier Occurrences from file text. Two scanner
// implementations share the same contract: the default token scanner works on
// literal-stripped text, and the AST scanner walks a tree-sitter parse tree.
// Either can feed the usage graph unchanged.
package scan

import (
	"tsreap/internal/engine/lex"
	"tsreap/internal/engine/source"
)

// Scanner turns a source file into identifier occurrences.
type Scanner interface {
	Scan(f *source.File) ([]source.Occurrence, error)
}

// reservedWords never name a tracked declaration; skipping them keeps the
// occurrence volume down without changing any verdict.
var reservedWords = map[string]bool{
	"abstract": true, "any": true, "as": true, "async": true, "await": true,
	"boolean": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "declare": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true, "from": true,
	"function": true, "get": true, "if": true, "implements": true,
	"import": true, "in": true, "infer": true, "instanceof": true,
	"interface": true, "keyof": true, "let": true, "module": true,
	"namespace": true, "never": true, "new": true, "null": true,
	"number": true, "object": true, "of": true, "private": true,
	"protected": true, "public": true, "readonly": true, "return": true,
	"set": true, "static": true, "string": true, "super": true,
	"switch": true, "symbol": true, "this": true, "throw": true,
	"true": true, "try": true, "type": true, "typeof": true,
	"undefined": true, "unknown": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// TokenScanner is the default, heuristic scanner: it blanks string and comment
// literals and records every identifier-shaped token that remains.
type TokenScanner struct{}

func NewTokenScanner() *TokenScanner { return &TokenScanner{} }

func (s *TokenScanner) Scan(f *source.File) ([]source.Occurrence, error) {
	return Tokenize(f.Path, lex.Strip(f.Content)), nil
}

// Tokenize records one Occurrence per identifier run in text. Line and column
// are 1-based byte positions.
func Tokenize(path string, text []byte) []source.Occurrence {
	var occs []source.Occurrence
	line, col := 1, 1

	for i := 0; i < len(text); {
		c := text[i]
		if c == '\n' {
			line++
			col = 1
			i++
			continue
		}
		if !isIdentStart(c) {
			i++
			col++
			continue
		}

		start := i
		startCol := col
		for i < len(text) && isIdentPart(text[i]) {
			i++
			col++
		}
		word := string(text[start:i])
		if reservedWords[word] {
			continue
		}
		occs = append(occs, source.Occurrence{
			Text:   word,
			File:   path,
			Line:   line,
			Column: startCol,
		})
	}

	return occs
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
