// Package encode encodes document trees to JSON text.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "age":  ir.FromInt(30),
//	})
//	s, err := encode.String(node)
//
//	// pretty printed
//	s, err := encode.String(node, encode.Indent("  "), encode.SortKeys(true))
//
// # Related Packages
//
//   - github.com/jsonquill/jsonquill/ir - document tree representation
//   - github.com/jsonquill/jsonquill/scan - scan text into a tree
package encode
