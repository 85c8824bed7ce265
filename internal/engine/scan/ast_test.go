package scan

import (
	"testing"

	"tsreap/internal/engine/source"
)

func scanAST(t *testing.T, countTypeAnnotations bool, path, content string) []source.Occurrence {
	t.Helper()
	occs, err := NewASTScanner(countTypeAnnotations).Scan(source.NewFile(path, []byte(content)))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return occs
}

func TestASTScannerBasicIdentifiers(t *testing.T) {
	occs := scanAST(t, true, "src/a.ts", "const total = compute(base);\n")

	for _, want := range []string{"total", "compute", "base"} {
		if len(occurrencesOf(occs, want)) == 0 {
			t.Errorf("missing occurrence %q in %v", want, occs)
		}
	}
}

func TestASTScannerIgnoresStringsAndComments(t *testing.T) {
	content := `const label = "Spinner";
// Spinner in a comment
render(Spinner);
`
	occs := scanAST(t, true, "src/a.tsx", content)

	got := occurrencesOf(occs, "Spinner")
	if len(got) != 1 {
		t.Fatalf("expected 1 Spinner occurrence, got %v", got)
	}
	if got[0].Line != 3 {
		t.Errorf("Spinner occurrence on line %d, want 3", got[0].Line)
	}
}

func TestASTScannerTypeAnnotationToggle(t *testing.T) {
	content := "let user: Account;\n"

	counted := scanAST(t, true, "src/a.ts", content)
	if len(occurrencesOf(counted, "Account")) != 1 {
		t.Errorf("annotation ref not counted when enabled: %v", counted)
	}

	skipped := scanAST(t, false, "src/a.ts", content)
	if len(occurrencesOf(skipped, "Account")) != 0 {
		t.Errorf("annotation ref counted when disabled: %v", skipped)
	}
	if len(occurrencesOf(skipped, "user")) != 1 {
		t.Errorf("binding name should still be recorded: %v", skipped)
	}
}

func TestASTScannerJSXAndMemberAccess(t *testing.T) {
	occs := scanAST(t, true, "src/page.tsx", "const Page = () => <Button kind={Status.PENDING} />;\n")

	if len(occurrencesOf(occs, "Button")) == 0 {
		t.Errorf("missing JSX element occurrence: %v", occs)
	}
	if len(occurrencesOf(occs, "Status")) == 0 {
		t.Errorf("missing member-access base occurrence: %v", occs)
	}
}

func TestASTScannerRejectsUnknownLanguage(t *testing.T) {
	f := &source.File{Path: "src/readme.md", Language: "", Content: []byte("x")}
	if _, err := NewASTScanner(true).Scan(f); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestASTScannerPositions(t *testing.T) {
	occs := scanAST(t, true, "src/a.ts", "alpha();\nbeta(alpha);\n")

	alphas := occurrencesOf(occs, "alpha")
	if len(alphas) != 2 {
		t.Fatalf("expected 2 alpha occurrences, got %v", alphas)
	}
	if alphas[0].Line != 1 || alphas[0].Column != 1 {
		t.Errorf("first alpha at %d:%d, want 1:1", alphas[0].Line, alphas[0].Column)
	}
	if alphas[1].Line != 2 || alphas[1].Column != 6 {
		t.Errorf("second alpha at %d:%d, want 2:6", alphas[1].Line, alphas[1].Column)
	}
}
