package query

import "github.com/jsonquill/jsonquill/ir"

// Expr is a parsed path expression.
type Expr struct {
	Relative bool
	Segs     []Seg
	Src      string
}

// HasFilter reports whether any segment, at any nesting depth, is a
// filter. Patch from/to fields reject such expressions.
func (e *Expr) HasFilter() bool {
	for i := range e.Segs {
		seg := &e.Segs[i]
		if seg.Kind == FilterSeg {
			return true
		}
		for j := range seg.Preds {
			if seg.Preds[j].Expr.HasFilter() {
				return true
			}
		}
	}
	return false
}

type SegKind int

const (
	FieldSeg SegKind = iota
	IndexSeg
	SliceSeg
	KeySeg
	FilterSeg
)

type Seg struct {
	Kind     SegKind
	Optional bool

	Field string // FieldSeg, KeySeg
	Index int    // IndexSeg
	Slice Slice  // SliceSeg
	Preds []Pred // FilterSeg, ANDed
}

// Slice selects array elements with Python range semantics; absent
// bounds fall back to the ends of the array in step direction.
type Slice struct {
	Start, Stop, Step          int
	HasStart, HasStop, HasStep bool
}

type PredKind int

const (
	ExistsPred PredKind = iota
	NegatedPred
	ComparePred
)

// Pred is one filter predicate: a relative query tested for existence,
// non-existence, or comparison of its single scalar match against a
// literal.
type Pred struct {
	Kind PredKind
	Expr *Expr
	Op   string
	Lit  *ir.Node
}
