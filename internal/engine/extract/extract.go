// Package extract produces Declarations from file text using category-specific
// structural heuristics. It does not parse the language grammar; each rule is a
// line-anchored pattern applied to literal-stripped text, so extraction is a
// pure function of (content, enabled categories) and reproducible across runs.
package extract

import (
	"regexp"
	"strings"

	"tsreap/internal/engine/lex"
	"tsreap/internal/engine/source"
)

// IgnoreDirective suppresses the unused verdict for the declaration on the
// same or the following line.
const IgnoreDirective = "@tsreap-ignore"

// Options gates which category rules run.
type Options struct {
	Components bool
	Types      bool
	Interfaces bool
	Functions  bool
	Variables  bool
	Enums      bool
}

// AllCategories enables every extractor rule.
func AllCategories() Options {
	return Options{
		Components: true,
		Types:      true,
		Interfaces: true,
		Functions:  true,
		Variables:  true,
		Enums:      true,
	}
}

var (
	interfaceRe = regexp.MustCompile(`^(export\s+)?(?:declare\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	typeRe      = regexp.MustCompile(`^(export\s+)?(?:declare\s+)?type\s+([A-Za-z_$][\w$]*)`)
	enumRe      = regexp.MustCompile(`^(export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+([A-Za-z_$][\w$]*)`)
	funcDeclRe  = regexp.MustCompile(`^(export\s+)?(?:default\s+)?(?:declare\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)
	bindingRe   = regexp.MustCompile(`^(export\s+)?(?:declare\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	wrapperRe   = regexp.MustCompile(`^(?:React\s*\.\s*)?(?:memo|forwardRef)\s*[(<]`)
)

// File extracts all declarations from f under the enabled categories.
//
// Tie-break: a binding matched by more than one category rule is classified by
// precedence Component > Function > Variable. Disabled categories drop out of
// the precedence chain; the binding falls through to the next matching rule.
func File(f *source.File, opts Options) []source.Declaration {
	stripped := strings.Split(string(lex.Strip(f.Content)), "\n")
	raw := strings.Split(string(f.Content), "\n")

	var decls []source.Declaration
	add := func(lineNo int, name string, kind source.DeclKind, exported bool) {
		decls = append(decls, source.Declaration{
			ID:       source.DeclID(f.Path, name, kind),
			Name:     name,
			Kind:     kind,
			File:     f.Path,
			Line:     lineNo,
			Exported: exported,
			Ignored:  hasIgnoreDirective(raw, lineNo),
		})
	}

	for i, line := range stripped {
		if !isTopLevel(line) {
			continue
		}
		lineNo := i + 1

		if m := interfaceRe.FindStringSubmatch(line); m != nil {
			if opts.Interfaces {
				add(lineNo, m[2], source.KindInterface, m[1] != "")
			}
			continue
		}
		if m := enumRe.FindStringSubmatch(line); m != nil {
			if opts.Enums {
				add(lineNo, m[2], source.KindEnum, m[1] != "")
			}
			continue
		}
		if m := typeRe.FindStringSubmatch(line); m != nil {
			if opts.Types {
				add(lineNo, m[2], source.KindType, m[1] != "")
			}
			continue
		}
		if m := funcDeclRe.FindStringSubmatch(line); m != nil {
			name, exported := m[2], m[1] != ""
			if kind, ok := classifyCallable(f, name, "", opts); ok {
				add(lineNo, name, kind, exported)
			}
			continue
		}
		if m := bindingRe.FindStringSubmatch(line); m != nil {
			name, exported := m[2], m[1] != ""
			init := bindingInit(line[len(m[0]):])
			if isFunctionInit(init) || isWrapperInit(init) {
				if kind, ok := classifyCallable(f, name, init, opts); ok {
					add(lineNo, name, kind, exported)
				}
				continue
			}
			if opts.Variables {
				add(lineNo, name, source.KindVariable, exported)
			}
			continue
		}
	}

	return decls
}

// classifyCallable resolves the Component/Function precedence for function
// declarations and function-valued bindings. init is empty for `function`
// statements, which count as function initializers by definition.
func classifyCallable(f *source.File, name, init string, opts Options) (source.DeclKind, bool) {
	if opts.Components && isComponentName(name) {
		if isWrapperInit(init) || f.SupportsJSX() {
			return source.KindComponent, true
		}
	}
	if opts.Functions {
		return source.KindFunction, true
	}
	if opts.Variables && init != "" {
		// A function-valued binding with function detection off still counts
		// as a top-level binding.
		return source.KindVariable, true
	}
	return 0, false
}

func isTopLevel(line string) bool {
	return line != "" && line[0] != ' ' && line[0] != '\t' && line[0] != '}' && line[0] != ')'
}

func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// bindingInit returns the initializer expression of a binding line: the text
// after the first assignment '=' that is not part of =>, ==, or >=/<=/!=.
// The type annotation between name and '=' may itself contain '=>'.
func bindingInit(rest string) string {
	for i := 0; i < len(rest); i++ {
		if rest[i] != '=' {
			continue
		}
		if i+1 < len(rest) && (rest[i+1] == '=' || rest[i+1] == '>') {
			i++
			continue
		}
		if i > 0 && (rest[i-1] == '=' || rest[i-1] == '!' || rest[i-1] == '<' || rest[i-1] == '>') {
			continue
		}
		return strings.TrimSpace(rest[i+1:])
	}
	return ""
}

func isFunctionInit(init string) bool {
	if init == "" {
		return false
	}
	if strings.HasPrefix(init, "function") || strings.HasPrefix(init, "async function") {
		return true
	}
	return strings.Contains(init, "=>")
}

func isWrapperInit(init string) bool {
	return wrapperRe.MatchString(init)
}

func hasIgnoreDirective(raw []string, lineNo int) bool {
	if lineNo-1 < len(raw) && strings.Contains(raw[lineNo-1], IgnoreDirective) {
		return true
	}
	if lineNo >= 2 && strings.Contains(strings.TrimSpace(raw[lineNo-2]), IgnoreDirective) {
		return true
	}
	return false
}
