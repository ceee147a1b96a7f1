package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var assertSym = register(&assertSymbol{name: "assert"})

type assertSymbol struct {
	name
}

func (s *assertSymbol) Instance(op *Operation) (Op, error) {
	if op.Expr == "" {
		return nil, fmt.Errorf("%w: assert requires an expr", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	preds, err := query.ParseFilter(op.Expr)
	if err != nil {
		return nil, err
	}
	msg := op.Msg
	if msg == "" {
		p := op.Path
		if p == "" {
			p = "$"
		}
		msg = fmt.Sprintf("Path %s: %s", p, op.Expr)
	}
	return &assertOp{baseOp: baseOp{s.name}, path: path, preds: preds, msg: msg}, nil
}

type assertOp struct {
	baseOp
	path  *query.Expr
	preds []query.Pred
	msg   string
}

func (o *assertOp) Apply(root *ir.Node) (*ir.Node, error) {
	locs, err := all(o.path, root)
	if err != nil {
		return nil, err
	}
	// A path matching zero locations fails the assertion rather than
	// passing vacuously.
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAssert, o.msg)
	}
	for i := range locs {
		ok, err := query.EvalFilter(o.preds, locs[i].Node)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAssert, o.msg)
		}
	}
	return root, nil
}
