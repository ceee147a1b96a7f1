// Package gomap converts between Go values and document trees.
//
// Conversion is reflection based and follows encoding/json conventions:
// exported struct fields only, field names overridable with the "json"
// tag, "-" skips a field. Integers map to arbitrary precision tree
// integers; *big.Int and decimal.Decimal round trip losslessly.
//
// Example:
//
//	node, err := gomap.ToNode(Person{Name: "alice", Age: 30})
//
//	var p Person
//	err = gomap.FromNode(node, &p)
package gomap
