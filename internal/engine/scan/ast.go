package scan

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"tsreap/internal/core/errors"
	"tsreap/internal/engine/source"
)

// identifierKinds are the tree-sitter leaf kinds recorded as occurrences.
// Property identifiers are included so member access like Status.PENDING still
// yields the enum token's neighbours, matching the token scanner's behavior.
var identifierKinds = map[string]bool{
	"identifier":                            true,
	"type_identifier":                       true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"statement_identifier":                  true,
	"shorthand_property_identifier_pattern": true,
}

// ASTScanner walks a real parse tree instead of heuristically stripped text.
// String and comment contents are excluded structurally. It is a drop-in
// replacement for TokenScanner with the same Occurrence contract.
type ASTScanner struct {
	pools map[string]*ParserPool
	// When false, identifiers inside type annotations are not counted as
	// usage (engine.count_type_annotation_refs).
	countTypeAnnotations bool
}

func NewASTScanner(countTypeAnnotations bool) *ASTScanner {
	return &ASTScanner{
		pools: map[string]*ParserPool{
			"typescript": NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())),
			"tsx":        NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())),
			"javascript": NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language())),
			"jsx":        NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language())),
		},
		countTypeAnnotations: countTypeAnnotations,
	}
}

func (s *ASTScanner) Scan(f *source.File) ([]source.Occurrence, error) {
	pool, ok := s.pools[f.Language]
	if !ok {
		return nil, errors.New(errors.CodeNotSupported, "no grammar for language: "+f.Language)
	}

	parser := pool.Get()
	defer pool.Put(parser)

	tree := parser.Parse(f.Content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	var occs []source.Occurrence
	s.walk(tree.RootNode(), f, &occs)
	return occs, nil
}

func (s *ASTScanner) walk(node *sitter.Node, f *source.File, occs *[]source.Occurrence) {
	if node == nil {
		return
	}

	kind := node.Kind()
	if !s.countTypeAnnotations && kind == "type_annotation" {
		return
	}

	if identifierKinds[kind] {
		text := nodeText(node, f.Content)
		if text != "" && !reservedWords[text] {
			*occs = append(*occs, source.Occurrence{
				Text:   text,
				File:   f.Path,
				Line:   int(node.StartPosition().Row) + 1,
				Column: int(node.StartPosition().Column) + 1,
			})
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i), f, occs)
	}
}

func nodeText(node *sitter.Node, src []byte) string {
	start := node.StartByte()
	end := node.EndByte()
	if start >= end || end > uint(len(src)) {
		return ""
	}
	return string(src[start:end])
}
