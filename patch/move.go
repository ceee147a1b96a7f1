package patch

import (
	"github.com/jsonquill/jsonquill/ir"
)

var moveSym = register(&moveSymbol{name: "move"})

type moveSymbol struct {
	name
}

func (s *moveSymbol) Instance(op *Operation) (Op, error) {
	p, err := newPaster(op, true)
	if err != nil {
		return nil, err
	}
	return &moveOp{baseOp: baseOp{s.name}, paster: p}, nil
}

type moveOp struct {
	baseOp
	paster *paster
}

func (o *moveOp) Apply(root *ir.Node) (*ir.Node, error) {
	return o.paster.apply(root)
}
