package encode

import "github.com/jsonquill/jsonquill/ir"

// MustString is like String but panics on error. Intended for trees
// known to be acyclic and finite, such as test fixtures.
func MustString(node *ir.Node, opts ...Option) string {
	s, err := String(node, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
