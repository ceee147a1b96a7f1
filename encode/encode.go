package encode

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/token"
)

type encState struct {
	indent         string
	indentLeaves   bool
	maxIndentLevel int
	sortKeys       bool
	ensureASCII    bool
	nanInf         bool
	surrogates     bool
	quotedKeys     bool
	trailingComma  bool
	end            string
	itemSep        string
	keySep         string
	sepsSet        bool
	checkCircular  bool
	hook           func(*ir.Node) (*ir.Node, error)
	color          func(ir.Type, ColorAttr, string) string

	itemSepTrim string
	arena       []indentEntry
	active      map[*ir.Node]bool
	buf         []byte
}

// indentEntry holds the memoized strings for one nesting level: the
// newline plus indentation, and the item separator followed by it.
type indentEntry struct {
	nl  string
	sep string
}

func Encode(node *ir.Node, w io.Writer, opts ...Option) error {
	es := &encState{
		indentLeaves:   true,
		maxIndentLevel: -1,
		quotedKeys:     true,
		checkCircular:  true,
		end:            "\n",
	}
	for _, opt := range opts {
		opt(es)
	}
	if !es.sepsSet {
		es.itemSep = ", "
		es.keySep = ": "
	}
	es.itemSepTrim = strings.TrimRight(es.itemSep, " \t")
	es.arena = []indentEntry{{nl: "\n", sep: es.itemSepTrim + "\n"}}
	if es.checkCircular {
		es.active = map[*ir.Node]bool{}
	}
	if err := es.encode(node, 0); err != nil {
		return err
	}
	es.buf = append(es.buf, es.end...)
	_, err := w.Write(es.buf)
	return err
}

func String(node *ir.Node, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Encode(node, &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// at returns the memoized indent entry for level, growing the arena on
// demand.
func (es *encState) at(level int) indentEntry {
	for len(es.arena) <= level {
		nl := "\n" + strings.Repeat(es.indent, len(es.arena))
		es.arena = append(es.arena, indentEntry{nl: nl, sep: es.itemSepTrim + nl})
	}
	return es.arena[level]
}

func (es *encState) put(t ir.Type, a ColorAttr, s string) {
	if es.color != nil {
		s = es.color(t, a, s)
	}
	es.buf = append(es.buf, s...)
}

func (es *encState) encode(n *ir.Node, level int) error {
	if es.hook != nil {
		var err error
		if n, err = es.hook(n); err != nil {
			return err
		}
	}
	if n == nil {
		return fmt.Errorf("%w: cannot encode nil node", ir.ErrType)
	}
	switch n.Type {
	case ir.NullType:
		es.put(n.Type, ValueColor, "null")
	case ir.BoolType:
		if n.Bool {
			es.put(n.Type, ValueColor, "true")
		} else {
			es.put(n.Type, ValueColor, "false")
		}
	case ir.IntType:
		es.put(n.Type, ValueColor, n.Int.String())
	case ir.FloatType:
		s, err := es.float(n.Float64)
		if err != nil {
			return err
		}
		es.put(n.Type, ValueColor, s)
	case ir.DecimalType:
		es.put(n.Type, ValueColor, n.Decimal.String())
	case ir.StringType:
		return es.str(n.Type, ValueColor, n.String)
	case ir.ArrayType:
		return es.array(n, level)
	case ir.ObjectType:
		return es.object(n, level)
	default:
		return fmt.Errorf("%w: cannot encode %s node", ir.ErrType, n.Type)
	}
	return nil
}

func (es *encState) float(f float64) (string, error) {
	switch {
	case math.IsNaN(f):
		if !es.nanInf {
			return "", fmt.Errorf("%w: NaN is not allowed", ir.ErrValue)
		}
		return "NaN", nil
	case math.IsInf(f, 1):
		if !es.nanInf {
			return "", fmt.Errorf("%w: Infinity is not allowed", ir.ErrValue)
		}
		return "Infinity", nil
	case math.IsInf(f, -1):
		if !es.nanInf {
			return "", fmt.Errorf("%w: -Infinity is not allowed", ir.ErrValue)
		}
		return "-Infinity", nil
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func (es *encState) str(t ir.Type, a ColorAttr, v string) error {
	q, err := token.AppendQuoted(nil, v, es.ensureASCII, es.surrogates)
	if err != nil {
		return err
	}
	es.put(t, a, string(q))
	return nil
}

// indented reports whether a container at the given nesting level is
// rendered one element per line.
func (es *encState) indented(n *ir.Node, level int) bool {
	if es.indent == "" {
		return false
	}
	if es.maxIndentLevel >= 0 && level >= es.maxIndentLevel {
		return false
	}
	if es.indentLeaves {
		return true
	}
	for _, v := range n.Values {
		if v != nil && !v.Type.IsLeaf() {
			return true
		}
	}
	return false
}

func (es *encState) enter(n *ir.Node) error {
	if !es.checkCircular {
		return nil
	}
	if es.active[n] {
		return fmt.Errorf("%w: Unexpected circular reference", ir.ErrValue)
	}
	es.active[n] = true
	return nil
}

func (es *encState) leave(n *ir.Node) {
	if es.checkCircular {
		delete(es.active, n)
	}
}

func (es *encState) array(n *ir.Node, level int) error {
	if err := es.enter(n); err != nil {
		return err
	}
	defer es.leave(n)
	es.put(n.Type, PuncColor, "[")
	if len(n.Values) == 0 {
		es.put(n.Type, PuncColor, "]")
		return nil
	}
	if es.indented(n, level) {
		in := es.at(level + 1)
		es.buf = append(es.buf, in.nl...)
		for i, v := range n.Values {
			if i > 0 {
				es.buf = append(es.buf, in.sep...)
			}
			if err := es.encode(v, level+1); err != nil {
				return err
			}
		}
		if es.trailingComma {
			es.put(n.Type, SepColor, es.itemSepTrim)
		}
		es.buf = append(es.buf, es.at(level).nl...)
	} else {
		for i, v := range n.Values {
			if i > 0 {
				es.put(n.Type, SepColor, es.itemSep)
			}
			if err := es.encode(v, level+1); err != nil {
				return err
			}
		}
	}
	es.put(n.Type, PuncColor, "]")
	return nil
}

func (es *encState) object(n *ir.Node, level int) error {
	if err := es.enter(n); err != nil {
		return err
	}
	defer es.leave(n)
	es.put(n.Type, PuncColor, "{")
	if len(n.Fields) == 0 {
		es.put(n.Type, PuncColor, "}")
		return nil
	}
	idx := make([]int, len(n.Fields))
	for i := range idx {
		idx[i] = i
	}
	if es.sortKeys {
		slices.SortStableFunc(idx, func(a, b int) int {
			return strings.Compare(n.Fields[a].String, n.Fields[b].String)
		})
	}
	pair := func(i int, level int) error {
		if err := es.key(n.Fields[i]); err != nil {
			return err
		}
		es.put(n.Type, SepColor, es.keySep)
		return es.encode(n.Values[i], level)
	}
	if es.indented(n, level) {
		in := es.at(level + 1)
		es.buf = append(es.buf, in.nl...)
		for i, j := range idx {
			if i > 0 {
				es.buf = append(es.buf, in.sep...)
			}
			if err := pair(j, level+1); err != nil {
				return err
			}
		}
		if es.trailingComma {
			es.put(n.Type, SepColor, es.itemSepTrim)
		}
		es.buf = append(es.buf, es.at(level).nl...)
	} else {
		for i, j := range idx {
			if i > 0 {
				es.put(n.Type, SepColor, es.itemSep)
			}
			if err := pair(j, level+1); err != nil {
				return err
			}
		}
	}
	es.put(n.Type, PuncColor, "}")
	return nil
}

func (es *encState) key(k *ir.Node) error {
	v := k.String
	if !es.quotedKeys && token.IsIdent(v) && (!es.ensureASCII || isASCII(v)) {
		es.put(ir.ObjectType, FieldColor, v)
		return nil
	}
	q, err := token.AppendQuoted(nil, v, es.ensureASCII, es.surrogates)
	if err != nil {
		return err
	}
	es.put(ir.ObjectType, FieldColor, string(q))
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7E {
			return false
		}
	}
	return true
}
