// Package lex holds the text-level primitives shared by the declaration
// extractor and the token scanner: literal stripping and import parsing.
package lex

const (
	modeCode = iota
	modeLineComment
	modeBlockComment
	modeSingle
	modeDouble
	modeTemplate
)

// Strip returns a copy of src with string literals and comments blanked out to
// spaces. Byte offsets, line breaks and everything outside literals are
// preserved, so line/column positions computed on the result match the
// original text. Template interpolations (${...}) are kept as code.
//
// Regex literals are not recognized; a regex containing a quote character can
// degrade stripping for the remainder of its line. This mirrors the tool's
// heuristic, non-parsing contract.
func Strip(src []byte) []byte {
	return strip(src, true)
}

// StripComments blanks comments only, keeping string literals intact. Import
// parsing runs on this form because module specifiers live inside quotes.
func StripComments(src []byte) []byte {
	return strip(src, false)
}

func strip(src []byte, blankStrings bool) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	// modeStack tracks template-literal nesting: an interpolation opens a new
	// code frame whose braces must balance before the template resumes.
	modeStack := []int{modeCode}
	braceStack := []int{0}
	mode := func() int { return modeStack[len(modeStack)-1] }
	push := func(m int) { modeStack = append(modeStack, m); braceStack = append(braceStack, 0) }
	pop := func() { modeStack = modeStack[:len(modeStack)-1]; braceStack = braceStack[:len(braceStack)-1] }

	blank := func(i int) {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch mode() {
		case modeCode:
			switch {
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				push(modeLineComment)
				blank(i)
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				push(modeBlockComment)
				blank(i)
			case c == '\'':
				push(modeSingle)
				if blankStrings {
					blank(i)
				}
			case c == '"':
				push(modeDouble)
				if blankStrings {
					blank(i)
				}
			case c == '`':
				push(modeTemplate)
				if blankStrings {
					blank(i)
				}
			case c == '{':
				braceStack[len(braceStack)-1]++
			case c == '}':
				if braceStack[len(braceStack)-1] == 0 && len(modeStack) > 1 {
					// Closes a template interpolation.
					pop()
					if blankStrings {
						blank(i)
					}
				} else if braceStack[len(braceStack)-1] > 0 {
					braceStack[len(braceStack)-1]--
				}
			}
		case modeLineComment:
			if c == '\n' {
				pop()
			} else {
				blank(i)
			}
		case modeBlockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				blank(i)
				blank(i + 1)
				i++
				pop()
			} else {
				blank(i)
			}
		case modeSingle, modeDouble:
			quote := byte('\'')
			if mode() == modeDouble {
				quote = '"'
			}
			switch {
			case c == '\\' && i+1 < len(src):
				if blankStrings {
					blank(i)
					blank(i + 1)
				}
				i++
			case c == quote:
				if blankStrings {
					blank(i)
				}
				pop()
			case c == '\n':
				// Unterminated string; recover at end of line.
				pop()
			default:
				if blankStrings {
					blank(i)
				}
			}
		case modeTemplate:
			switch {
			case c == '\\' && i+1 < len(src):
				if blankStrings {
					blank(i)
					blank(i + 1)
				}
				i++
			case c == '$' && i+1 < len(src) && src[i+1] == '{':
				if blankStrings {
					blank(i)
					blank(i + 1)
				}
				i++
				push(modeCode)
			case c == '`':
				if blankStrings {
					blank(i)
				}
				pop()
			default:
				if blankStrings {
					blank(i)
				}
			}
		}
	}

	return out
}
