package patch

import (
	"github.com/jsonquill/jsonquill/ir"
)

var copySym = register(&copySymbol{name: "copy"})

type copySymbol struct {
	name
}

func (s *copySymbol) Instance(op *Operation) (Op, error) {
	p, err := newPaster(op, false)
	if err != nil {
		return nil, err
	}
	return &copyOp{baseOp: baseOp{s.name}, paster: p}, nil
}

type copyOp struct {
	baseOp
	paster *paster
}

func (o *copyOp) Apply(root *ir.Node) (*ir.Node, error) {
	return o.paster.apply(root)
}
