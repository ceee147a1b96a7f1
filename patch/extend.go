package patch

import (
	"fmt"

	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var extendSym = register(&extendSymbol{name: "extend"})

type extendSymbol struct {
	name
}

func (s *extendSymbol) Instance(op *Operation) (Op, error) {
	if op.Values == nil {
		return nil, fmt.Errorf("%w: extend requires values", ErrPatch)
	}
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &extendOp{baseOp: baseOp{s.name}, path: path, values: op.Values}, nil
}

type extendOp struct {
	baseOp
	path   *query.Expr
	values []*ir.Node
}

func (o *extendOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.path, root)
	if err != nil {
		return nil, err
	}
	if err := wantArray(loc.Node, "extend"); err != nil {
		return nil, err
	}
	for _, v := range o.values {
		loc.Node.AppendValue(detach(v))
	}
	return root, nil
}
