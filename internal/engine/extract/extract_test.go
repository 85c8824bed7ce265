package extract

import (
	"testing"

	"tsreap/internal/engine/source"
)

func declsOf(t *testing.T, path, content string, opts Options) []source.Declaration {
	t.Helper()
	return File(source.NewFile(path, []byte(content)), opts)
}

func findDecl(t *testing.T, decls []source.Declaration, name string) source.Declaration {
	t.Helper()
	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("declaration %q not found in %v", name, decls)
	return source.Declaration{}
}

func TestExtractComponents(t *testing.T) {
	content := `import React from 'react';

export default function App() {
  return <div />;
}

export const Button = ({ label }: Props) => <button>{label}</button>;

const Spinner = () => <div className="spin" />;

export const Card = React.memo(() => <div />);
`
	decls := declsOf(t, "src/components.tsx", content, AllCategories())

	for _, name := range []string{"App", "Button", "Spinner", "Card"} {
		d := findDecl(t, decls, name)
		if d.Kind != source.KindComponent {
			t.Errorf("%s: expected component, got %s", name, d.Kind)
		}
	}

	if d := findDecl(t, decls, "Spinner"); d.Exported {
		t.Error("Spinner should not be exported")
	}
	if d := findDecl(t, decls, "Button"); !d.Exported {
		t.Error("Button should be exported")
	}
	if d := findDecl(t, decls, "Button"); d.Line != 7 {
		t.Errorf("Button: expected line 7, got %d", d.Line)
	}
}

func TestExtractWrapperComponentInPlainTS(t *testing.T) {
	// memo/forwardRef imply a component even without JSX file eligibility.
	decls := declsOf(t, "src/card.ts", `export const Card = memo(renderCard);`, AllCategories())
	if d := findDecl(t, decls, "Card"); d.Kind != source.KindComponent {
		t.Errorf("expected component, got %s", d.Kind)
	}
}

func TestExtractTypesInterfacesEnums(t *testing.T) {
	content := `export type UserId = string;

type Internal = { a: number };

export interface User {
  id: UserId;
}

export enum Status {
  PENDING = 'pending',
  DONE = 'done',
}

const enum Flags {
  A,
}
`
	decls := declsOf(t, "src/models.ts", content, AllCategories())

	if d := findDecl(t, decls, "UserId"); d.Kind != source.KindType || !d.Exported {
		t.Errorf("UserId: got %+v", d)
	}
	if d := findDecl(t, decls, "Internal"); d.Kind != source.KindType || d.Exported {
		t.Errorf("Internal: got %+v", d)
	}
	if d := findDecl(t, decls, "User"); d.Kind != source.KindInterface {
		t.Errorf("User: got %+v", d)
	}
	if d := findDecl(t, decls, "Status"); d.Kind != source.KindEnum {
		t.Errorf("Status: got %+v", d)
	}
	if d := findDecl(t, decls, "Flags"); d.Kind != source.KindEnum {
		t.Errorf("Flags: got %+v", d)
	}

	// Enum members are not declarations.
	for _, d := range decls {
		if d.Name == "PENDING" || d.Name == "DONE" {
			t.Errorf("enum member extracted as declaration: %+v", d)
		}
	}
}

func TestExtractFunctionsAndVariables(t *testing.T) {
	content := `export function calculateTotal(items: Item[]): number {
  return items.length;
}

export async function fetchUser(id: string) {}

const formatDate = (d: Date): string => d.toISOString();

export const API_URL = 'https://api.example.com';

let counter = 0;
`
	decls := declsOf(t, "src/utils.ts", content, AllCategories())

	if d := findDecl(t, decls, "calculateTotal"); d.Kind != source.KindFunction {
		t.Errorf("calculateTotal: got %s", d.Kind)
	}
	if d := findDecl(t, decls, "fetchUser"); d.Kind != source.KindFunction {
		t.Errorf("fetchUser: got %s", d.Kind)
	}
	if d := findDecl(t, decls, "formatDate"); d.Kind != source.KindFunction {
		t.Errorf("formatDate: got %s", d.Kind)
	}
	if d := findDecl(t, decls, "API_URL"); d.Kind != source.KindVariable {
		t.Errorf("API_URL: got %s", d.Kind)
	}
	if d := findDecl(t, decls, "counter"); d.Kind != source.KindVariable {
		t.Errorf("counter: got %s", d.Kind)
	}
}

func TestExtractPrecedenceComponentOverFunction(t *testing.T) {
	// Capitalized const arrow in a JSX-capable file matches both the component
	// and function rules; precedence picks component.
	decls := declsOf(t, "src/page.tsx", `const Helper = (x: number) => x * 2;`, AllCategories())
	if d := findDecl(t, decls, "Helper"); d.Kind != source.KindComponent {
		t.Errorf("expected component by precedence, got %s", d.Kind)
	}

	// In a .ts file the component rule does not apply; the function rule wins.
	decls = declsOf(t, "src/helper.ts", `const Helper = (x: number) => x * 2;`, AllCategories())
	if d := findDecl(t, decls, "Helper"); d.Kind != source.KindFunction {
		t.Errorf("expected function, got %s", d.Kind)
	}
}

func TestExtractDisabledCategoryFallsThrough(t *testing.T) {
	opts := AllCategories()
	opts.Components = false
	decls := declsOf(t, "src/page.tsx", `const Widget = () => <div />;`, opts)
	if d := findDecl(t, decls, "Widget"); d.Kind != source.KindFunction {
		t.Errorf("expected fall-through to function, got %s", d.Kind)
	}
}

func TestExtractCategoryGating(t *testing.T) {
	content := `export enum A { X }
export enum B { Y }
export type T = string;
`
	opts := AllCategories()
	opts.Enums = false
	decls := declsOf(t, "src/gated.ts", content, opts)
	for _, d := range decls {
		if d.Kind == source.KindEnum {
			t.Errorf("enum extracted while disabled: %+v", d)
		}
	}
	findDecl(t, decls, "T")
}

func TestExtractIgnoresNestedDeclarations(t *testing.T) {
	content := `export function outer() {
  const inner = () => 1;
  function nested() {}
  return inner() + nested();
}
`
	decls := declsOf(t, "src/nested.ts", content, AllCategories())
	if len(decls) != 1 || decls[0].Name != "outer" {
		t.Errorf("expected only outer, got %v", decls)
	}
}

func TestExtractIgnoresCommentsAndStrings(t *testing.T) {
	content := `// export const Ghost = () => null;
const real = "export function phantom() {}";
`
	decls := declsOf(t, "src/comments.ts", content, AllCategories())
	for _, d := range decls {
		if d.Name == "Ghost" || d.Name == "phantom" {
			t.Errorf("declaration extracted from comment or string: %+v", d)
		}
	}
	findDecl(t, decls, "real")
}

func TestExtractIgnoreDirective(t *testing.T) {
	content := `// @tsreap-ignore
export type Kept = string;

export type Flagged = number; // @tsreap-ignore

export type Normal = boolean;
`
	decls := declsOf(t, "src/ignored.ts", content, AllCategories())

	if d := findDecl(t, decls, "Kept"); !d.Ignored {
		t.Error("Kept: expected ignore directive from preceding line")
	}
	if d := findDecl(t, decls, "Flagged"); !d.Ignored {
		t.Error("Flagged: expected inline ignore directive")
	}
	if d := findDecl(t, decls, "Normal"); d.Ignored {
		t.Error("Normal: unexpected ignore flag")
	}
}

func TestExtractDeterminism(t *testing.T) {
	content := `export const A = 1;
export const B = () => 2;
export interface C {}
`
	f := source.NewFile("src/det.ts", []byte(content))
	first := File(f, AllCategories())
	second := File(f, AllCategories())
	if len(first) != len(second) {
		t.Fatalf("non-deterministic extraction: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("declaration %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestExtractExportClauseIsNotADeclaration(t *testing.T) {
	content := `const Widget = 1;
export { Widget };
`
	decls := declsOf(t, "src/reexport.ts", content, AllCategories())
	count := 0
	for _, d := range decls {
		if d.Name == "Widget" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("export clause created an extra declaration: %v", decls)
	}
}
