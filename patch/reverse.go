package patch

import (
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var reverseSym = register(&reverseSymbol{name: "reverse"})

type reverseSymbol struct {
	name
}

func (s *reverseSymbol) Instance(op *Operation) (Op, error) {
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &reverseOp{baseOp: baseOp{s.name}, path: path}, nil
}

type reverseOp struct {
	baseOp
	path *query.Expr
}

func (o *reverseOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.path, root)
	if err != nil {
		return nil, err
	}
	if err := wantArray(loc.Node, "reverse"); err != nil {
		return nil, err
	}
	loc.Node.Reverse()
	return root, nil
}
