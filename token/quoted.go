package token

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnterminated = errors.New("Unterminated string")
	ErrBadEscape    = errors.New("Invalid backslash escape")
	ErrBadUnicode   = errors.New("Invalid unicode escape")
	ErrSurrogate    = errors.New("Surrogates are not allowed")
	ErrControl      = errors.New("Unescaped control character")
	ErrBadUTF8      = errors.New("Invalid UTF-8")
)

// IsSurrogate reports whether r is a UTF-16 surrogate code point.
func IsSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// AppendRuneWTF8 appends r to dst. Surrogate code points, which
// utf8.AppendRune would replace with U+FFFD, are written in their natural
// three byte form so they survive a decode/encode round trip.
func AppendRuneWTF8(dst []byte, r rune) []byte {
	if !IsSurrogate(r) {
		return utf8.AppendRune(dst, r)
	}
	return append(dst,
		byte(0xE0|r>>12),
		byte(0x80|r>>6&0x3F),
		byte(0x80|r&0x3F))
}

// DecodeRuneWTF8 decodes the rune starting at s[i], additionally accepting
// the three byte encoding of surrogate code points.
func DecodeRuneWTF8(s string, i int) (rune, int) {
	r, sz := utf8.DecodeRuneInString(s[i:])
	if r != utf8.RuneError || sz != 1 {
		return r, sz
	}
	if i+3 <= len(s) && s[i] == 0xED && s[i+1] >= 0xA0 && s[i+1] <= 0xBF && s[i+2]&0xC0 == 0x80 {
		r = 0xD000 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F)
		return r, 3
	}
	return utf8.RuneError, 1
}

// Unquote decodes d, which must start with a single or double quote.
// It returns the decoded value, the bytes and codepoints consumed
// (including both quotes). On failure errOff is the codepoint offset of
// the defect relative to d[0].
func Unquote(d []byte, allowSurrogates bool) (val string, n, cps, errOff int, err error) {
	qc := d[0]
	var b strings.Builder
	i := 1
	cp := 1
	for i < len(d) {
		c := d[i]
		if c == qc {
			return b.String(), i + 1, cp + 1, 0, nil
		}
		if c == '\\' {
			r, sz, scp, e := decodeEscape(d[i:], qc, allowSurrogates)
			if e != nil {
				return "", 0, 0, cp, e
			}
			b.Write(AppendRuneWTF8(nil, r))
			i += sz
			cp += scp
			continue
		}
		if c < 0x20 {
			if c == '\n' {
				return "", 0, 0, cp, ErrUnterminated
			}
			return "", 0, 0, cp, ErrControl
		}
		r, sz := utf8.DecodeRune(d[i:])
		if r == utf8.RuneError && sz == 1 {
			return "", 0, 0, cp, ErrBadUTF8
		}
		b.WriteRune(r)
		i += sz
		cp++
	}
	return "", 0, 0, cp, ErrUnterminated
}

// decodeEscape decodes the escape sequence at d[0] == '\\'. Surrogate
// pair halves combine when both are present and valid; a lone half is an
// error unless allowSurrogates.
func decodeEscape(d []byte, qc byte, allowSurrogates bool) (r rune, n, cps int, err error) {
	if len(d) < 2 {
		return 0, 0, 0, ErrUnterminated
	}
	switch d[1] {
	case '"':
		return '"', 2, 2, nil
	case '\'':
		if qc != '\'' {
			return 0, 0, 0, ErrBadEscape
		}
		return '\'', 2, 2, nil
	case '\\':
		return '\\', 2, 2, nil
	case '/':
		return '/', 2, 2, nil
	case 'b':
		return '\b', 2, 2, nil
	case 'f':
		return '\f', 2, 2, nil
	case 'n':
		return '\n', 2, 2, nil
	case 'r':
		return '\r', 2, 2, nil
	case 't':
		return '\t', 2, 2, nil
	case 'u':
		u, ok := hex4(d[2:])
		if !ok {
			return 0, 0, 0, ErrBadUnicode
		}
		if !IsSurrogate(u) {
			return u, 6, 6, nil
		}
		if u < 0xDC00 && len(d) >= 12 && d[6] == '\\' && d[7] == 'u' {
			if lo, ok := hex4(d[8:]); ok && lo >= 0xDC00 && lo <= 0xDFFF {
				return 0x10000 + (u-0xD800)<<10 + (lo - 0xDC00), 12, 12, nil
			}
		}
		if !allowSurrogates {
			return 0, 0, 0, ErrSurrogate
		}
		return u, 6, 6, nil
	default:
		return 0, 0, 0, ErrBadEscape
	}
}

func hex4(d []byte) (rune, bool) {
	if len(d) < 4 {
		return 0, false
	}
	var r rune
	for _, c := range d[:4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// AppendQuoted appends v as a double quoted JSON string literal.
// Surrogate code points in v (stored in their three byte form) are
// re-escaped as \uXXXX when allowSurrogates and rejected otherwise.
func AppendQuoted(dst []byte, v string, ensureASCII, allowSurrogates bool) ([]byte, error) {
	dst = append(dst, '"')
	for i := 0; i < len(v); {
		r, sz := DecodeRuneWTF8(v, i)
		i += sz
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			switch {
			case r < 0x20:
				dst = appendU16(dst, r)
			case IsSurrogate(r):
				if !allowSurrogates {
					return nil, ErrSurrogate
				}
				dst = appendU16(dst, r)
			case r == utf8.RuneError && sz == 1:
				return nil, ErrBadUTF8
			case ensureASCII && r > 0x7E:
				if r > 0xFFFF {
					r -= 0x10000
					dst = appendU16(dst, 0xD800+r>>10)
					dst = appendU16(dst, 0xDC00+r&0x3FF)
				} else {
					dst = appendU16(dst, r)
				}
			default:
				dst = utf8.AppendRune(dst, r)
			}
		}
	}
	return append(dst, '"'), nil
}

const hexDigits = "0123456789abcdef"

func appendU16(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xF],
		hexDigits[r>>8&0xF],
		hexDigits[r>>4&0xF],
		hexDigits[r&0xF])
}
