package pattern

import (
	"regexp"
	"strings"
)

// literalRegex recognizes an expression already written as a delimited
// regex literal, e.g. /promo.*/gi. Such expressions bypass the compiler
// entirely.
var literalRegex = regexp.MustCompile(`^/.*/[a-zA-Z]*$`)

// IsRegexLiteral reports whether expr is a delimited regex literal.
func IsRegexLiteral(expr string) bool {
	return literalRegex.MatchString(expr)
}

// Compile translates the symbolic alert syntax into a delimited
// case-insensitive regex literal:
//
//	a+b    both a and b must occur (word-bounded, accent-insensitive)
//	a=b    either a or b satisfies the enclosing term
//	a-b    a must occur, b must not occur anywhere in the text
//
// Exclusions are global: a -term written inside any segment excludes the
// term from the whole text. Expressions containing no operator, and
// delimited regex literals, are returned unchanged.
//
// Output is deterministic: exclusions first in input order, then one
// positive lookahead per segment in input order, alternatives within a
// segment in input order.
func Compile(expr string) string {
	if IsRegexLiteral(expr) {
		return expr
	}
	if !strings.ContainsAny(expr, "+=-") {
		return expr
	}

	var includes [][]string
	var excludes []string
	for _, segment := range strings.Split(expr, "+") {
		pieces := strings.Split(segment, "-")
		if head := strings.TrimSpace(pieces[0]); head != "" {
			var alts []string
			for _, alt := range strings.Split(head, "=") {
				if alt = strings.TrimSpace(alt); alt != "" {
					alts = append(alts, foldToken(alt))
				}
			}
			if len(alts) > 0 {
				includes = append(includes, alts)
			}
		}
		for _, excl := range pieces[1:] {
			if excl = strings.TrimSpace(excl); excl != "" {
				excludes = append(excludes, foldToken(excl))
			}
		}
	}

	var b strings.Builder
	b.WriteString("/^")
	for _, excl := range excludes {
		b.WriteString(`(?!.*(?:\b` + excl + `\b))`)
	}
	for _, alts := range includes {
		b.WriteString(`(?=.*(?:\b(?:` + strings.Join(alts, "|") + `)\b))`)
	}
	b.WriteString(".*/i")
	return b.String()
}
