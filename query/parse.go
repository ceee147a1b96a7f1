package query

import (
	"bytes"
	"math"
	"math/big"
	"strconv"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/token"
)

// Parse parses a path expression. Errors are positioned within the path
// string, in codepoints.
func Parse(path string) (*Expr, error) {
	p := &parser{
		doc: &token.Doc{Name: "<path>", Text: path},
		d:   []byte(path),
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.d) {
		return nil, p.errAt("Unexpected character", p.cp, p.cp+1)
	}
	e.Src = path
	return e, nil
}

// ParseFilter parses a bare filter expression, the text that would
// appear between { and } in a path.
func ParseFilter(src string) ([]Pred, error) {
	p := &parser{
		doc: &token.Doc{Name: "<filter>", Text: src},
		d:   []byte(src),
	}
	preds, err := p.filter()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.d) {
		return nil, p.errAt("Unexpected character", p.cp, p.cp+1)
	}
	return preds, nil
}

// MustParse is Parse for statically known paths.
func MustParse(path string) *Expr {
	e, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	doc *token.Doc
	d   []byte
	pos int // byte offset
	cp  int // codepoint offset
}

func (p *parser) errAt(msg string, start, end int) *token.SourceErr {
	return token.NewSourceErr(msg, p.doc, start, end)
}

// adv advances over n ASCII bytes.
func (p *parser) adv(n int) {
	p.pos += n
	p.cp += n
}

func (p *parser) space() {
	for p.pos < len(p.d) && p.d[p.pos] == ' ' {
		p.adv(1)
	}
}

func (p *parser) expr() (*Expr, error) {
	e := &Expr{}
	if p.pos >= len(p.d) {
		return nil, p.errAt("Expecting '$' or '@'", p.cp, p.cp+1)
	}
	switch p.d[p.pos] {
	case '$':
	case '@':
		e.Relative = true
	default:
		return nil, p.errAt("Expecting '$' or '@'", p.cp, p.cp+1)
	}
	p.adv(1)
	for p.pos < len(p.d) {
		var seg Seg
		switch p.d[p.pos] {
		case '.':
			p.adv(1)
			n, cps := token.Ident(p.d[p.pos:])
			if n == 0 {
				return nil, p.errAt("Expecting identifier", p.cp, p.cp+1)
			}
			seg = Seg{Kind: FieldSeg, Field: string(p.d[p.pos : p.pos+n])}
			p.pos += n
			p.cp += cps
		case '[':
			p.adv(1)
			if err := p.bracket(&seg); err != nil {
				return nil, err
			}
			if p.pos >= len(p.d) || p.d[p.pos] != ']' {
				return nil, p.errAt("Expecting ']'", p.cp, p.cp+1)
			}
			p.adv(1)
		case '{':
			p.adv(1)
			preds, err := p.filter()
			if err != nil {
				return nil, err
			}
			seg = Seg{Kind: FilterSeg, Preds: preds}
			if p.pos >= len(p.d) || p.d[p.pos] != '}' {
				return nil, p.errAt("Expecting '}'", p.cp, p.cp+1)
			}
			p.adv(1)
		default:
			return e, nil
		}
		if p.pos < len(p.d) && p.d[p.pos] == '?' {
			seg.Optional = true
			p.adv(1)
		}
		e.Segs = append(e.Segs, seg)
	}
	return e, nil
}

func (p *parser) bracket(seg *Seg) error {
	if p.pos >= len(p.d) {
		return p.errAt("Expecting ']'", p.cp, p.cp+1)
	}
	switch c := p.d[p.pos]; {
	case c == '"' || c == '\'':
		start := p.cp
		v, n, cps, errOff, err := token.Unquote(p.d[p.pos:], true)
		if err != nil {
			return p.errAt(err.Error(), start+errOff, start+errOff+1)
		}
		p.pos += n
		p.cp += cps
		*seg = Seg{Kind: KeySeg, Field: v}
		return nil
	case c == '-' || c >= '0' && c <= '9' || c == ':':
		return p.indexOrSlice(seg)
	default:
		preds, err := p.filter()
		if err != nil {
			return err
		}
		*seg = Seg{Kind: FilterSeg, Preds: preds}
		return nil
	}
}

func (p *parser) indexOrSlice(seg *Seg) error {
	var sl Slice
	var err error
	sl.Start, sl.HasStart, err = p.int()
	if err != nil {
		return err
	}
	if p.pos >= len(p.d) || p.d[p.pos] != ':' {
		if !sl.HasStart {
			return p.errAt("Expecting index", p.cp, p.cp+1)
		}
		*seg = Seg{Kind: IndexSeg, Index: sl.Start}
		return nil
	}
	p.adv(1)
	if sl.Stop, sl.HasStop, err = p.int(); err != nil {
		return err
	}
	if p.pos < len(p.d) && p.d[p.pos] == ':' {
		p.adv(1)
		stepStart := p.cp
		if sl.Step, sl.HasStep, err = p.int(); err != nil {
			return err
		}
		if sl.HasStep && sl.Step == 0 {
			return p.errAt("Slice step cannot be zero", stepStart, p.cp)
		}
	}
	*seg = Seg{Kind: SliceSeg, Slice: sl}
	return nil
}

func (p *parser) int() (int, bool, error) {
	startCp := p.cp
	i := p.pos
	if i < len(p.d) && p.d[i] == '-' {
		i++
	}
	j := i
	for j < len(p.d) && p.d[j] >= '0' && p.d[j] <= '9' {
		j++
	}
	if j == i {
		if i > p.pos {
			return 0, false, p.errAt("Expecting index", startCp, startCp+1)
		}
		return 0, false, nil
	}
	v, err := strconv.Atoi(string(p.d[p.pos:j]))
	if err != nil {
		return 0, false, p.errAt("Index is too big", startCp, startCp+(j-p.pos))
	}
	p.adv(j - p.pos)
	return v, true, nil
}

func (p *parser) filter() ([]Pred, error) {
	var preds []Pred
	for {
		p.space()
		var pr Pred
		if p.pos < len(p.d) && p.d[p.pos] == '!' {
			pr.Kind = NegatedPred
			p.adv(1)
		}
		start := p.cp
		sub, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !sub.Relative {
			return nil, p.errAt("Expecting a relative query", start, start+1)
		}
		pr.Expr = sub
		p.space()
		if pr.Kind != NegatedPred {
			if op := p.op(); op != "" {
				pr.Kind = ComparePred
				pr.Op = op
				p.space()
				if pr.Lit, err = p.literal(); err != nil {
					return nil, err
				}
			}
		}
		preds = append(preds, pr)
		p.space()
		if p.pos+1 < len(p.d) && p.d[p.pos] == '&' && p.d[p.pos+1] == '&' {
			p.adv(2)
			continue
		}
		return preds, nil
	}
}

func (p *parser) op() string {
	if p.pos+1 < len(p.d) {
		switch s := string(p.d[p.pos : p.pos+2]); s {
		case "<=", ">=", "==", "!=":
			p.adv(2)
			return s
		}
	}
	if p.pos < len(p.d) && (p.d[p.pos] == '<' || p.d[p.pos] == '>') {
		s := string(p.d[p.pos : p.pos+1])
		p.adv(1)
		return s
	}
	return ""
}

// literal parses a scalar comparison literal: a JSON scalar, or bare
// Infinity / -Infinity.
func (p *parser) literal() (*ir.Node, error) {
	startCp := p.cp
	if p.pos >= len(p.d) {
		return nil, p.errAt("Expecting value", startCp, startCp+1)
	}
	switch c := p.d[p.pos]; {
	case c == '"' || c == '\'':
		v, n, cps, errOff, err := token.Unquote(p.d[p.pos:], true)
		if err != nil {
			return nil, p.errAt(err.Error(), startCp+errOff, startCp+errOff+1)
		}
		p.pos += n
		p.cp += cps
		return ir.FromString(v), nil
	case c == '-' || c >= '0' && c <= '9':
		start := p.pos
		if c == '-' {
			p.adv(1)
		}
		if bytes.HasPrefix(p.d[p.pos:], []byte("Infinity")) {
			p.adv(8)
			if c == '-' {
				return ir.FromFloat(math.Inf(-1)), nil
			}
			return ir.FromFloat(math.Inf(1)), nil
		}
		n, isFloat := token.Number(p.d[p.pos:])
		if n == 0 {
			return nil, p.errAt("Expecting value", startCp, startCp+1)
		}
		p.adv(n)
		lit := string(p.d[start:p.pos])
		if isFloat {
			f, err := strconv.ParseFloat(lit, 64)
			if err != nil && math.IsInf(f, 0) {
				return nil, p.errAt("Number is too big", startCp, p.cp)
			}
			return ir.FromFloat(f), nil
		}
		i, _ := new(big.Int).SetString(lit, 10)
		return ir.FromBigInt(i), nil
	case bytes.HasPrefix(p.d[p.pos:], []byte("Infinity")):
		p.adv(8)
		return ir.FromFloat(math.Inf(1)), nil
	case bytes.HasPrefix(p.d[p.pos:], []byte("true")):
		p.adv(4)
		return ir.FromBool(true), nil
	case bytes.HasPrefix(p.d[p.pos:], []byte("false")):
		p.adv(5)
		return ir.FromBool(false), nil
	case bytes.HasPrefix(p.d[p.pos:], []byte("null")):
		p.adv(4)
		return ir.Null(), nil
	default:
		return nil, p.errAt("Expecting value", startCp, startCp+1)
	}
}
