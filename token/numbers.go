package token

// Number matches a number starting at a digit in d, per the strict JSON
// grammar: integer part "0" or [1-9][0-9]*, optional fraction, optional
// exponent. The caller consumes any leading minus sign. A malformed
// fraction or exponent attempt backtracks to the integer boundary instead
// of failing, so "1.x" matches "1" and "2e+" matches "2". isFloat is true
// only when a fraction or a valid exponent was matched.
func Number(d []byte) (n int, isFloat bool) {
	digits := integerDigits(d)
	if digits == 0 {
		return 0, false
	}
	f := fract(d[digits:])
	e := exp(d[digits+f:])
	return digits + f + e, f+e > 0
}

func integerDigits(d []byte) int {
	if len(d) == 0 || !asciiDigit(d[0]) {
		return 0
	}
	if d[0] == '0' {
		return 1
	}
	return asciiDigits(d)
}

func asciiDigits(d []byte) int {
	i := 0
	for i < len(d) && asciiDigit(d[i]) {
		i++
	}
	return i
}

func asciiDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func fract(d []byte) int {
	if len(d) < 2 || d[0] != '.' || !asciiDigit(d[1]) {
		return 0
	}
	return 1 + asciiDigits(d[1:])
}

func exp(d []byte) int {
	if len(d) < 2 {
		return 0
	}
	switch d[0] {
	case 'e', 'E':
	default:
		return 0
	}
	i := 1
	switch d[1] {
	case '+', '-':
		i++
	}
	n := asciiDigits(d[i:])
	if n == 0 {
		return 0
	}
	return i + n
}
