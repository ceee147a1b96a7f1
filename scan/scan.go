// Package scan turns JSON text into a document tree. It is strict by
// default; documented deviations (comments, trailing or missing commas,
// NaN and Infinity, surrogates, unquoted keys, duplicate keys) are
// enabled per call through Options. All failures are positioned
// token.SourceErr values; no partial tree is ever returned.
package scan

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jsonquill/jsonquill/debug"
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/token"
)

// Scan scans text into a tree. filename is only used in error messages.
func Scan(filename string, text []byte, opts ...Option) (*ir.Node, error) {
	o := &scanOpts{maxDepth: defaultMaxDepth}
	for _, f := range opts {
		f(o)
	}
	s := &scanner{
		doc:  &token.Doc{Name: filename, Text: string(text)},
		d:    text,
		opts: o,
		keys: map[string]string{},
	}
	if bytes.HasPrefix(text, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, s.errAt("Unexpected UTF-8 BOM", 0, 1)
	}
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	v, err := s.scanValue()
	if err != nil {
		return nil, err
	}
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	if s.pos < len(s.d) {
		return nil, s.errAt("Extra data", s.cp, s.cp+1)
	}
	if debug.Scan() {
		debug.Logf("scanned %q: %v", filename, v)
	}
	return v, nil
}

type scanner struct {
	doc   *token.Doc
	d     []byte
	pos   int // byte offset
	cp    int // codepoint offset
	depth int
	opts  *scanOpts

	// per-call key intern memo, so repeated keys share one string
	keys map[string]string
}

func (s *scanner) errAt(msg string, start, end int) *token.SourceErr {
	return token.NewSourceErr(msg, s.doc, start, end)
}

// adv advances over n ASCII bytes.
func (s *scanner) adv(n int) {
	s.pos += n
	s.cp += n
}

func (s *scanner) advRune() {
	_, sz := utf8.DecodeRune(s.d[s.pos:])
	s.pos += sz
	s.cp++
}

// skipSpace skips whitespace and, when the dialect allows, comments.
// An unterminated block comment is an error.
func (s *scanner) skipSpace() error {
	for s.pos < len(s.d) {
		switch s.d[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.adv(1)
		case '/':
			if !s.opts.comments || s.pos+1 >= len(s.d) {
				return nil
			}
			switch s.d[s.pos+1] {
			case '/':
				s.adv(2)
				for s.pos < len(s.d) && s.d[s.pos] != '\n' {
					s.advRune()
				}
			case '*':
				start := s.cp
				s.adv(2)
				for {
					if s.pos+1 >= len(s.d) {
						return s.errAt("Unterminated comment", start, s.cp)
					}
					if s.d[s.pos] == '*' && s.d[s.pos+1] == '/' {
						s.adv(2)
						break
					}
					s.advRune()
				}
			default:
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) scanValue() (*ir.Node, error) {
	if s.pos >= len(s.d) {
		return nil, s.errAt("Expecting value", s.cp, s.cp+1)
	}
	switch c := s.d[s.pos]; {
	case c == '{':
		return s.scanObject()
	case c == '[':
		return s.scanArray()
	case c == '"':
		return s.scanString()
	case c == '-' || c >= '0' && c <= '9':
		return s.scanNumber()
	case bytes.HasPrefix(s.d[s.pos:], []byte("true")):
		s.adv(4)
		return s.hook(ir.FromBool(true), s.opts.hooks.Bool)
	case bytes.HasPrefix(s.d[s.pos:], []byte("false")):
		s.adv(5)
		return s.hook(ir.FromBool(false), s.opts.hooks.Bool)
	case bytes.HasPrefix(s.d[s.pos:], []byte("null")):
		s.adv(4)
		return ir.Null(), nil
	case bytes.HasPrefix(s.d[s.pos:], []byte("NaN")):
		if !s.opts.nanInf {
			return nil, s.errAt("Expecting value", s.cp, s.cp+1)
		}
		s.adv(3)
		return s.hook(ir.FromFloat(math.NaN()), s.opts.hooks.Float)
	case bytes.HasPrefix(s.d[s.pos:], []byte("Infinity")):
		if !s.opts.nanInf {
			return nil, s.errAt("Expecting value", s.cp, s.cp+1)
		}
		s.adv(8)
		return s.hook(ir.FromFloat(math.Inf(1)), s.opts.hooks.Float)
	default:
		return nil, s.errAt("Expecting value", s.cp, s.cp+1)
	}
}

func (s *scanner) scanNumber() (*ir.Node, error) {
	start, startCp := s.pos, s.cp
	if s.d[s.pos] == '-' {
		s.adv(1)
		if bytes.HasPrefix(s.d[s.pos:], []byte("Infinity")) {
			if !s.opts.nanInf {
				return nil, s.errAt("Expecting value", startCp, startCp+1)
			}
			s.adv(8)
			return s.hook(ir.FromFloat(math.Inf(-1)), s.opts.hooks.Float)
		}
	}
	n, isFloat := token.Number(s.d[s.pos:])
	if n == 0 {
		return nil, s.errAt("Expecting value", startCp, startCp+1)
	}
	s.adv(n)
	lit := string(s.d[start:s.pos])
	if !isFloat {
		i, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, s.errAt("Expecting value", startCp, s.cp)
		}
		return s.hook(ir.FromBigInt(i), s.opts.hooks.Int)
	}
	if s.opts.useDecimal {
		dec, err := decimal.NewFromString(lit)
		if err != nil {
			return nil, s.errAt("Number is too big", startCp, s.cp)
		}
		return s.hook(ir.FromDecimal(dec), s.opts.hooks.Float)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && math.IsInf(f, 0) {
		return nil, s.errAt("Number is too big", startCp, s.cp)
	}
	return s.hook(ir.FromFloat(f), s.opts.hooks.Float)
}

func (s *scanner) scanString() (*ir.Node, error) {
	v, err := s.str()
	if err != nil {
		return nil, err
	}
	return s.hook(ir.FromString(v), s.opts.hooks.String)
}

// str scans the string literal at the current position. The fast path
// slices the input directly when no escape occurs; the slow path defers
// to token.Unquote.
func (s *scanner) str() (string, error) {
	startCp := s.cp
	d := s.d[s.pos:]
	i, cps := 1, 1
	for i < len(d) {
		c := d[i]
		if c == '"' {
			v := string(d[1:i])
			s.pos += i + 1
			s.cp += cps + 1
			return v, nil
		}
		if c == '\\' || c < 0x20 {
			break
		}
		if c < 0x80 {
			i++
			cps++
			continue
		}
		_, sz := utf8.DecodeRune(d[i:])
		if sz == 1 {
			break
		}
		i += sz
		cps++
	}
	v, n, ncps, errOff, err := token.Unquote(d, s.opts.surrogates)
	if err != nil {
		if errors.Is(err, token.ErrUnterminated) {
			return "", s.errAt("Unterminated string", startCp, startCp+errOff)
		}
		return "", s.errAt(err.Error(), startCp+errOff, startCp+errOff+1)
	}
	s.pos += n
	s.cp += ncps
	return v, nil
}

func (s *scanner) scanObject() (*ir.Node, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.opts.maxDepth {
		return nil, s.errAt("Too deeply nested", s.cp, s.cp+1)
	}
	s.adv(1)
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	var kvs []ir.KeyVal
	seen := map[string]bool{}
	if s.pos < len(s.d) && s.d[s.pos] == '}' {
		s.adv(1)
		return s.hook(ir.FromKeyVals(kvs), s.opts.hooks.Object)
	}
	for {
		keyCp := s.cp
		key, err := s.scanKey()
		if err != nil {
			return nil, err
		}
		if iv, ok := s.keys[key]; ok {
			key = iv
		} else {
			s.keys[key] = key
		}
		kNode := ir.FromString(key)
		if seen[key] {
			if !s.opts.dupKeys {
				return nil, s.errAt("Duplicate keys are not allowed", keyCp, s.cp)
			}
			kNode.Dup = true
		}
		seen[key] = true
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		if s.pos >= len(s.d) || s.d[s.pos] != ':' {
			return nil, s.errAt("Expecting colon", s.cp, s.cp+1)
		}
		s.adv(1)
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		val, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: kNode, Val: val})
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		if s.pos >= len(s.d) {
			return nil, s.errAt("Expecting comma", s.cp, s.cp+1)
		}
		switch s.d[s.pos] {
		case '}':
			s.adv(1)
			return s.hook(ir.FromKeyVals(kvs), s.opts.hooks.Object)
		case ',':
			commaCp := s.cp
			s.adv(1)
			if err := s.skipSpace(); err != nil {
				return nil, err
			}
			if s.pos < len(s.d) && s.d[s.pos] == '}' {
				if !s.opts.trailingComma {
					return nil, s.errAt("Trailing comma is not allowed", commaCp, commaCp+1)
				}
				s.adv(1)
				return s.hook(ir.FromKeyVals(kvs), s.opts.hooks.Object)
			}
		default:
			if !s.opts.missingCommas {
				return nil, s.errAt("Expecting comma", s.cp, s.cp+1)
			}
		}
	}
}

func (s *scanner) scanKey() (string, error) {
	if s.pos < len(s.d) && s.d[s.pos] == '"' {
		return s.str()
	}
	if s.opts.unquotedKeys && s.pos < len(s.d) {
		if n, cps := token.Ident(s.d[s.pos:]); n > 0 {
			key := string(s.d[s.pos : s.pos+n])
			s.pos += n
			s.cp += cps
			return key, nil
		}
	}
	return "", s.errAt("Expecting string", s.cp, s.cp+1)
}

func (s *scanner) scanArray() (*ir.Node, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.opts.maxDepth {
		return nil, s.errAt("Too deeply nested", s.cp, s.cp+1)
	}
	s.adv(1)
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	var vals []*ir.Node
	if s.pos < len(s.d) && s.d[s.pos] == ']' {
		s.adv(1)
		return s.hook(ir.FromSlice(vals), s.opts.hooks.Array)
	}
	for {
		v, err := s.scanValue()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		if s.pos >= len(s.d) {
			return nil, s.errAt("Expecting comma", s.cp, s.cp+1)
		}
		switch s.d[s.pos] {
		case ']':
			s.adv(1)
			return s.hook(ir.FromSlice(vals), s.opts.hooks.Array)
		case ',':
			commaCp := s.cp
			s.adv(1)
			if err := s.skipSpace(); err != nil {
				return nil, err
			}
			if s.pos < len(s.d) && s.d[s.pos] == ']' {
				if !s.opts.trailingComma {
					return nil, s.errAt("Trailing comma is not allowed", commaCp, commaCp+1)
				}
				s.adv(1)
				return s.hook(ir.FromSlice(vals), s.opts.hooks.Array)
			}
		default:
			if !s.opts.missingCommas {
				return nil, s.errAt("Expecting comma", s.cp, s.cp+1)
			}
		}
	}
}

func (s *scanner) hook(n *ir.Node, h func(*ir.Node) (*ir.Node, error)) (*ir.Node, error) {
	if h == nil {
		return n, nil
	}
	return h(n)
}
