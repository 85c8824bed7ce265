package scan

import (
	"testing"

	"tsreap/internal/engine/source"
)

func scanTokens(t *testing.T, path, content string) []source.Occurrence {
	t.Helper()
	occs, err := NewTokenScanner().Scan(source.NewFile(path, []byte(content)))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return occs
}

func occurrencesOf(occs []source.Occurrence, text string) []source.Occurrence {
	var out []source.Occurrence
	for _, o := range occs {
		if o.Text == text {
			out = append(out, o)
		}
	}
	return out
}

func TestTokenScannerPositions(t *testing.T) {
	occs := scanTokens(t, "src/a.ts", "foo();\nbar(foo);\n")

	foos := occurrencesOf(occs, "foo")
	if len(foos) != 2 {
		t.Fatalf("expected 2 foo occurrences, got %v", foos)
	}
	if foos[0].Line != 1 || foos[0].Column != 1 {
		t.Errorf("first foo at %d:%d, want 1:1", foos[0].Line, foos[0].Column)
	}
	if foos[1].Line != 2 || foos[1].Column != 5 {
		t.Errorf("second foo at %d:%d, want 2:5", foos[1].Line, foos[1].Column)
	}
}

func TestTokenScannerSkipsStringsAndComments(t *testing.T) {
	content := `const a = "Spinner";
// Spinner here too
/* and Spinner here */
render(Spinner);
`
	occs := scanTokens(t, "src/a.tsx", content)
	if got := occurrencesOf(occs, "Spinner"); len(got) != 1 || got[0].Line != 4 {
		t.Errorf("expected exactly one Spinner occurrence on line 4, got %v", got)
	}
}

func TestTokenScannerSkipsReservedWords(t *testing.T) {
	occs := scanTokens(t, "src/a.ts", "export const x = function () { return null; };\n")
	for _, kw := range []string{"export", "const", "function", "return", "null"} {
		if got := occurrencesOf(occs, kw); len(got) != 0 {
			t.Errorf("reserved word %q recorded: %v", kw, got)
		}
	}
	if got := occurrencesOf(occs, "x"); len(got) != 1 {
		t.Errorf("expected one x occurrence, got %v", got)
	}
}

func TestTokenScannerMemberAccess(t *testing.T) {
	occs := scanTokens(t, "src/a.ts", "if (s === Status.PENDING) {}\n")
	if got := occurrencesOf(occs, "Status"); len(got) != 1 {
		t.Errorf("expected Status occurrence, got %v", got)
	}
	if got := occurrencesOf(occs, "PENDING"); len(got) != 1 {
		t.Errorf("expected PENDING occurrence, got %v", got)
	}
}

func TestTokenScannerJSXUsage(t *testing.T) {
	occs := scanTokens(t, "src/page.tsx", "const Page = () => <Button label=\"ok\" />;\n")
	if got := occurrencesOf(occs, "Button"); len(got) != 1 {
		t.Errorf("expected Button occurrence from JSX, got %v", got)
	}
	if got := occurrencesOf(occs, "ok"); len(got) != 0 {
		t.Errorf("attribute string content recorded: %v", got)
	}
}

func TestTokenScannerExportClause(t *testing.T) {
	occs := scanTokens(t, "src/index.ts", "export { Spinner };\n")
	if got := occurrencesOf(occs, "Spinner"); len(got) != 1 {
		t.Errorf("expected re-export to produce one occurrence, got %v", got)
	}
}

func TestTokenScannerTemplateInterpolation(t *testing.T) {
	occs := scanTokens(t, "src/a.ts", "const s = `count: ${total} of ${limit}`;\n")
	if got := occurrencesOf(occs, "total"); len(got) != 1 {
		t.Errorf("expected total occurrence from interpolation, got %v", got)
	}
	if got := occurrencesOf(occs, "count"); len(got) != 0 {
		t.Errorf("template text recorded: %v", got)
	}
}

func TestTokenizeDeterminism(t *testing.T) {
	content := []byte("alpha beta gamma\nalpha\n")
	first := Tokenize("src/a.ts", content)
	second := Tokenize("src/a.ts", content)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic tokenization")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("occurrence %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
