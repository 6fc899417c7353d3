package features

import "strings"

// commentStyle describes how a language family writes comments.
type commentStyle struct {
	line       []string
	blockStart string
	blockEnd   string
	docstrings bool
	// quotes are the string delimiters inside which comment markers are text.
	quotes     string
}

var (
	hashStyle   = commentStyle{line: []string{"#"}}
	cStyle      = commentStyle{line: []string{"//"}, blockStart: "/*", blockEnd: "*/", quotes: "\"'`"}
	phpStyle    = commentStyle{line: []string{"//", "#"}, blockStart: "/*", blockEnd: "*/", quotes: "\"'"}
	pythonStyle = commentStyle{line: []string{"#"}, docstrings: true}
	sqlStyle    = commentStyle{line: []string{"--"}, blockStart: "/*", blockEnd: "*/", quotes: "'"}
	luaStyle    = commentStyle{line: []string{"--"}, blockStart: "--[[", blockEnd: "]]", quotes: "\"'"}
	haskStyle   = commentStyle{line: []string{"--"}, blockStart: "{-", blockEnd: "-}"}
	lispStyle   = commentStyle{line: []string{";"}}
	matlabStyle = commentStyle{line: []string{"%"}, blockStart: "%{", blockEnd: "%}"}
	markupStyle = commentStyle{blockStart: "<!--", blockEnd: "-->"}
	cssStyle    = commentStyle{blockStart: "/*", blockEnd: "*/", quotes: "\"'"}
	rubyStyle   = commentStyle{line: []string{"#"}, blockStart: "=begin", blockEnd: "=end"}
	noComments  = commentStyle{}
)

var commentStyles = map[string]commentStyle{
	"Python":           pythonStyle,
	"Ruby":             rubyStyle,
	"Shell":            hashStyle,
	"PowerShell":       hashStyle,
	"Perl":             hashStyle,
	"R":                hashStyle,
	"Julia":            hashStyle,
	"Elixir":           hashStyle,
	"YAML":             hashStyle,
	"TOML":             hashStyle,
	"Dockerfile":       hashStyle,
	"Makefile":         hashStyle,
	"CMake":            hashStyle,
	"Text":             noComments,
	"CSV":              noComments,
	"JSON":             noComments,
	"Terraform":        phpStyle,
	"PHP":              phpStyle,
	"Go":               cStyle,
	"Java":             cStyle,
	"Kotlin":           cStyle,
	"Scala":            cStyle,
	"Groovy":           cStyle,
	"JavaScript":       cStyle,
	"TypeScript":       cStyle,
	"Vue":              cStyle,
	"Svelte":           cStyle,
	"C":                cStyle,
	"C++":              cStyle,
	"C#":               cStyle,
	"F#":               cStyle,
	"Objective-C":      cStyle,
	"Rust":             cStyle,
	"Swift":            cStyle,
	"Dart":             cStyle,
	"Zig":              cStyle,
	"Protobuf":         cStyle,
	"SQL":              sqlStyle,
	"Ada":              sqlStyle,
	"Lua":              luaStyle,
	"Haskell":          haskStyle,
	"OCaml":            commentStyle{blockStart: "(*", blockEnd: "*)"},
	"Lisp":             lispStyle,
	"Clojure":          lispStyle,
	"Assembly":         lispStyle,
	"INI":              commentStyle{line: []string{";", "#"}},
	"MATLAB":           matlabStyle,
	"Erlang":           commentStyle{line: []string{"%"}},
	"HTML":             markupStyle,
	"XML":              markupStyle,
	"Markdown":         markupStyle,
	"reStructuredText": commentStyle{line: []string{".."}},
	"CSS":              cssStyle,
}

func styleFor(lang string) commentStyle {
	if s, ok := commentStyles[lang]; ok {
		return s
	}
	return hashStyle
}

// codeLines returns the lines of src that are neither blank nor comments,
// keeping their original indentation.
func codeLines(src []byte, style commentStyle) []string {
	var (
		out      []string
		inBlock  bool
		blockEnd string
	)

	for _, raw := range strings.Split(string(src), "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if inBlock {
			idx := strings.Index(trimmed, blockEnd)
			if idx < 0 {
				continue
			}
			inBlock = false
			trimmed = strings.TrimSpace(trimmed[idx+len(blockEnd):])
			if trimmed == "" || isLineComment(trimmed, style) {
				continue
			}
			out = append(out, line)
			continue
		}

		if trimmed == "" || isLineComment(trimmed, style) {
			continue
		}

		if style.docstrings {
			if q, rest, ok := docstringQuote(trimmed); ok {
				if !strings.Contains(rest, q) {
					inBlock, blockEnd = true, q
				}
				continue
			}
		}

		if style.blockStart != "" && strings.HasPrefix(trimmed, style.blockStart) {
			rest := trimmed[len(style.blockStart):]
			idx := strings.Index(rest, style.blockEnd)
			if idx < 0 {
				inBlock, blockEnd = true, style.blockEnd
				continue
			}
			if strings.TrimSpace(rest[idx+len(style.blockEnd):]) == "" {
				continue
			}
			out = append(out, line)
			continue
		}

		out = append(out, line)

		// A block opened after code on the same line hides the following lines.
		if style.blockStart != "" && opensBlock(trimmed, style) {
			inBlock, blockEnd = true, style.blockEnd
		}
	}
	return out
}

// opensBlock reports whether a code line leaves a block comment open at its
// end. Markers inside quoted strings or after a line comment are ignored. A
// quote character that never closes on the line (a Rust lifetime, an
// apostrophe) is not treated as a delimiter.
func opensBlock(line string, style commentStyle) bool {
	quotes := style.quotes
	for {
		open, unclosed := scanBlockStart(line, style, quotes)
		if unclosed == 0 {
			return open
		}
		quotes = strings.ReplaceAll(quotes, string(unclosed), "")
	}
}

// scanBlockStart scans one line. unclosed is the quote still open at the end
// of the line, or 0.
func scanBlockStart(line string, style commentStyle, quotes string) (open bool, unclosed byte) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		if strings.IndexByte(quotes, c) >= 0 {
			quote = c
			continue
		}
		if strings.HasPrefix(line[i:], style.blockStart) {
			rest := line[i+len(style.blockStart):]
			end := strings.Index(rest, style.blockEnd)
			if end < 0 {
				return true, 0
			}
			i += len(style.blockStart) + end + len(style.blockEnd) - 1
			continue
		}
		for _, prefix := range style.line {
			if strings.HasPrefix(line[i:], prefix) {
				return false, 0
			}
		}
	}
	return false, quote
}

func isLineComment(trimmed string, style commentStyle) bool {
	for _, prefix := range style.line {
		if strings.HasPrefix(trimmed, prefix) {
			// Lua and Haskell block openers share the line-comment prefix.
			if style.blockStart != "" && strings.HasPrefix(trimmed, style.blockStart) {
				return false
			}
			return true
		}
	}
	return false
}

// docstringQuote reports whether a trimmed Python line starts a bare
// triple-quoted string, optionally with a string prefix, and returns the
// quote and the text after it.
func docstringQuote(trimmed string) (quote, rest string, ok bool) {
	s := strings.TrimLeft(trimmed, "rRuUbBfF")
	if len(trimmed)-len(s) > 2 {
		return "", "", false
	}
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, q) {
			return q, s[len(q):], true
		}
	}
	return "", "", false
}
