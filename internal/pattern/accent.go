package pattern

import (
	"regexp"
	"strings"
)

// accentGroups lists the diacritic equivalence classes for the Latin
// letters the alert syntax folds. The first rune of each group is the
// plain base letter.
var accentGroups = []string{
	"aáàâã",
	"eéê",
	"ií",
	"oóôõ",
	"uúü",
	"cç",
}

// accentClasses maps each accented letter (and cedilla) to the character
// class covering its whole group. Plain base letters are not mapped:
// only positions where the user actually typed an accent get widened.
var accentClasses = func() map[rune]string {
	classes := make(map[rune]string)
	for _, group := range accentGroups {
		class := "[" + group + "]"
		for _, r := range group {
			if r > 'z' {
				classes[r] = class
			}
		}
	}
	return classes
}()

// foldToken converts a raw word token into a regex fragment that matches
// the token accent-insensitively at accented positions. Metacharacters
// are escaped; case folding is handled by the final pattern's i flag,
// not here.
func foldToken(token string) string {
	hasAccent := strings.ContainsFunc(token, func(r rune) bool {
		_, ok := accentClasses[r]
		return ok
	})
	if !hasAccent {
		return regexp.QuoteMeta(token)
	}

	var b strings.Builder
	for _, r := range token {
		if class, ok := accentClasses[r]; ok {
			b.WriteString(class)
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
