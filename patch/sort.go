package patch

import (
	"github.com/jsonquill/jsonquill/ir"
	"github.com/jsonquill/jsonquill/query"
)

var sortSym = register(&sortSymbol{name: "sort"})

type sortSymbol struct {
	name
}

func (s *sortSymbol) Instance(op *Operation) (Op, error) {
	path, err := parsePath(op.Path)
	if err != nil {
		return nil, err
	}
	return &sortOp{baseOp: baseOp{s.name}, path: path, reverse: op.Reverse}, nil
}

type sortOp struct {
	baseOp
	path    *query.Expr
	reverse bool
}

func (o *sortOp) Apply(root *ir.Node) (*ir.Node, error) {
	loc, err := one(o.path, root)
	if err != nil {
		return nil, err
	}
	if err := wantArray(loc.Node, "sort"); err != nil {
		return nil, err
	}
	if err := loc.Node.SortValues(o.reverse); err != nil {
		return nil, err
	}
	return root, nil
}
