package query

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jsonquill/jsonquill/debug"
	"github.com/jsonquill/jsonquill/ir"
)

var (
	// ErrLookup reports a path step that failed to match.
	ErrLookup = errors.New("lookup error")
	// ErrQuery reports a path expression used in the wrong setting.
	ErrQuery = errors.New("query error")
)

// Location is one resolved slot: the root itself (Container nil) or a
// (container, pair index) position holding Node. Key is set for object
// containers.
type Location struct {
	Container *ir.Node
	Index     int
	Key       string
	Node      *ir.Node
}

func (l *Location) IsRoot() bool { return l.Container == nil }

// Resolve evaluates an absolute expression against root.
func Resolve(e *Expr, root *ir.Node) ([]Location, error) {
	return ResolveAt(e, root, nil)
}

// ResolveAt evaluates e against root, with current as the starting
// point for relative expressions.
func ResolveAt(e *Expr, root, current *ir.Node) ([]Location, error) {
	start := root
	if e.Relative {
		if current == nil {
			return nil, fmt.Errorf("%w: relative query %q without a current location", ErrQuery, e.Src)
		}
		start = current
	}
	if start == nil {
		return nil, fmt.Errorf("%w: no document", ErrQuery)
	}
	locs := []Location{{Node: start}}
	for i := range e.Segs {
		var err error
		if locs, err = step(&e.Segs[i], locs); err != nil {
			return nil, err
		}
	}
	if debug.Query() {
		debug.Logf("query %q matched %d locations", e.Src, len(locs))
	}
	return locs, nil
}

// ResolveOne is ResolveAt requiring exactly one match.
func ResolveOne(e *Expr, root, current *ir.Node) (Location, error) {
	locs, err := ResolveAt(e, root, current)
	if err != nil {
		return Location{}, err
	}
	if len(locs) != 1 {
		return Location{}, fmt.Errorf("%w: %q matched %d locations, want 1", ErrLookup, e.Src, len(locs))
	}
	return locs[0], nil
}

func step(seg *Seg, locs []Location) ([]Location, error) {
	var out []Location
	for i := range locs {
		next, err := apply(seg, &locs[i])
		if err != nil {
			if seg.Optional && errors.Is(err, ErrLookup) {
				continue
			}
			return nil, err
		}
		out = append(out, next...)
	}
	return out, nil
}

func apply(seg *Seg, loc *Location) ([]Location, error) {
	n := loc.Node
	switch seg.Kind {
	case FieldSeg, KeySeg:
		if n.Type != ir.ObjectType {
			return nil, fmt.Errorf("%w: %s is not an object", ErrLookup, n.Path())
		}
		i := n.FieldIndex(seg.Field)
		if i == -1 {
			return nil, fmt.Errorf("%w: no key %q in %s", ErrLookup, seg.Field, n.Path())
		}
		return []Location{{Container: n, Index: i, Key: seg.Field, Node: n.Values[i]}}, nil
	case IndexSeg:
		if n.Type != ir.ArrayType {
			return nil, fmt.Errorf("%w: %s is not an array", ErrLookup, n.Path())
		}
		i := seg.Index
		if i < 0 {
			i += len(n.Values)
		}
		if i < 0 || i >= len(n.Values) {
			return nil, fmt.Errorf("%w: index %d out of range in %s", ErrLookup, seg.Index, n.Path())
		}
		return []Location{{Container: n, Index: i, Node: n.Values[i]}}, nil
	case SliceSeg:
		if n.Type != ir.ArrayType {
			return nil, fmt.Errorf("%w: %s is not an array", ErrLookup, n.Path())
		}
		start, stop, stp := seg.Slice.indices(len(n.Values))
		var out []Location
		if stp > 0 {
			for k := start; k < stop; k += stp {
				out = append(out, Location{Container: n, Index: k, Node: n.Values[k]})
			}
		} else {
			for k := start; k > stop; k += stp {
				out = append(out, Location{Container: n, Index: k, Node: n.Values[k]})
			}
		}
		return out, nil
	case FilterSeg:
		var out []Location
		switch n.Type {
		case ir.ArrayType:
			for i, v := range n.Values {
				ok, err := evalPreds(seg.Preds, v)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, Location{Container: n, Index: i, Node: v})
				}
			}
		case ir.ObjectType:
			for i, v := range n.Values {
				ok, err := evalPreds(seg.Preds, v)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, Location{Container: n, Index: i, Key: n.Fields[i].String, Node: v})
				}
			}
		default:
			return nil, fmt.Errorf("%w: cannot filter %s", ErrLookup, n.Path())
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown segment kind", ErrQuery)
}

// indices maps the slice onto an array of n elements, Python range
// style.
func (s *Slice) indices(n int) (start, stop, step int) {
	step = 1
	if s.HasStep {
		step = s.Step
	}
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if s.HasStart {
		start = clampIndex(s.Start, n, step)
	}
	if s.HasStop {
		stop = clampIndex(s.Stop, n, step)
	}
	return start, stop, step
}

func clampIndex(i, n, step int) int {
	if i < 0 {
		i += n
		if i < 0 {
			if step > 0 {
				return 0
			}
			return -1
		}
		return i
	}
	if i >= n {
		if step > 0 {
			return n
		}
		return n - 1
	}
	return i
}

// EvalFilter evaluates ANDed predicates against current.
func EvalFilter(preds []Pred, current *ir.Node) (bool, error) {
	return evalPreds(preds, current)
}

func evalPreds(preds []Pred, current *ir.Node) (bool, error) {
	for i := range preds {
		ok, err := evalPred(&preds[i], current)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func evalPred(p *Pred, current *ir.Node) (bool, error) {
	locs, err := ResolveAt(p.Expr, nil, current)
	if err != nil {
		if !errors.Is(err, ErrLookup) {
			return false, err
		}
		locs = nil
	}
	switch p.Kind {
	case NegatedPred:
		return len(locs) == 0, nil
	case ExistsPred:
		return len(locs) > 0, nil
	default:
		if len(locs) != 1 || !locs[0].Node.Type.IsLeaf() {
			return false, nil
		}
		return compare(locs[0].Node, p.Op, p.Lit)
	}
}

// compare evaluates a op lit. Ordering is defined among numbers and
// among strings only; NaN compares unequal to everything.
func compare(a *ir.Node, op string, lit *ir.Node) (bool, error) {
	if isNaN(a) || isNaN(lit) {
		return op == "!=", nil
	}
	switch {
	case a.Type.IsNumber() && lit.Type.IsNumber():
		c, err := ir.Compare(a, lit)
		if err != nil {
			return false, err
		}
		return cmpTrue(c, op), nil
	case a.Type == ir.StringType && lit.Type == ir.StringType:
		return cmpTrue(strings.Compare(a.String, lit.String), op), nil
	case a.Type == lit.Type && (a.Type == ir.BoolType || a.Type == ir.NullType):
		switch op {
		case "==":
			return a.Type == ir.NullType || a.Bool == lit.Bool, nil
		case "!=":
			return a.Type == ir.BoolType && a.Bool != lit.Bool, nil
		default:
			return false, fmt.Errorf("%w: cannot order %s values", ir.ErrValue, a.Type)
		}
	default:
		switch op {
		case "==":
			return false, nil
		case "!=":
			return true, nil
		default:
			return false, fmt.Errorf("%w: cannot order %s against %s", ir.ErrValue, a.Type, lit.Type)
		}
	}
}

func cmpTrue(c int, op string) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

func isNaN(n *ir.Node) bool {
	return n.Type == ir.FloatType && math.IsNaN(n.Float64)
}
