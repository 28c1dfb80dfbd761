package pattern

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Matcher evaluates a stored subscription pattern against candidate
// text. Delimited regex literals, including compiler output, run on a
// regexp2 engine because the compiler emits lookaheads that Go's native
// RE2 engine rejects. Any other pattern matches as a case-insensitive
// substring.
type Matcher struct {
	re        *regexp2.Regexp
	substring string
}

// NewMatcher builds a Matcher for a stored pattern string.
func NewMatcher(pattern string) (*Matcher, error) {
	if !IsRegexLiteral(pattern) {
		return &Matcher{substring: strings.ToLower(pattern)}, nil
	}

	body := pattern[1:]
	cut := strings.LastIndex(body, "/")
	expr, flags := body[:cut], body[cut+1:]

	var opts regexp2.RegexOptions
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	if strings.Contains(flags, "s") {
		opts |= regexp2.Singleline
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Matcher{re: re}, nil
}

// Match reports whether text satisfies the pattern.
func (m *Matcher) Match(text string) (bool, error) {
	if m.re == nil {
		start, _ := foldIndex(text, m.substring)
		return start >= 0, nil
	}
	return m.re.MatchString(text)
}

// Find returns the matched fragment, or the empty string when text does
// not satisfy the pattern. For substring patterns this is the pattern
// itself in the casing it occurs in the text.
func (m *Matcher) Find(text string) (string, error) {
	if m.re == nil {
		start, end := foldIndex(text, m.substring)
		if start < 0 {
			return "", nil
		}
		return text[start:end], nil
	}

	match, err := m.re.FindStringMatch(text)
	if err != nil || match == nil {
		return "", err
	}
	return match.String(), nil
}

// foldIndex returns the byte bounds in s of the first case-insensitive
// occurrence of the already-lowercased needle, or -1, -1. Comparison is
// rune-wise over the original string: lowering a rune can change its
// byte length, so offsets computed on a lowered copy cannot be trusted.
func foldIndex(s, needle string) (int, int) {
	want := []rune(needle)
	for start := 0; start < len(s); {
		_, size := utf8.DecodeRuneInString(s[start:])

		end := start
		matched := true
		for _, w := range want {
			r, n := utf8.DecodeRuneInString(s[end:])
			if n == 0 || unicode.ToLower(r) != w {
				matched = false
				break
			}
			end += n
		}
		if matched {
			return start, end
		}
		start += size
	}
	return -1, -1
}
