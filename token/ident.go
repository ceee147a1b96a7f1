package token

import (
	"unicode"
	"unicode/utf8"
)

// Ident matches a Unicode identifier at the start of d and returns its
// byte length and codepoint count, or (0, 0) when d does not start with
// one. Identifiers start with a letter or underscore and continue with
// letters, digits or underscores.
func Ident(d []byte) (n, cps int) {
	for n < len(d) {
		r, sz := utf8.DecodeRune(d[n:])
		if r == utf8.RuneError && sz == 1 {
			break
		}
		if !identRune(r, n == 0) {
			break
		}
		n += sz
		cps++
	}
	return n, cps
}

// IsIdent reports whether s as a whole is an identifier.
func IsIdent(s string) bool {
	n, _ := Ident([]byte(s))
	return n > 0 && n == len(s)
}

func identRune(r rune, first bool) bool {
	if r == '_' || unicode.IsLetter(r) {
		return true
	}
	return !first && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r))
}
