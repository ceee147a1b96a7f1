// Package patch applies declarative operation lists to document trees.
//
// A patch is itself a document: an object with an "op" field, or an
// array of such objects. Operations run in order against the shared
// tree with no rollback; when one fails, the mutations of the ones
// before it remain applied, and the error names the failing index.
//
//	ops, err := patch.Decode(patchDoc)
//	root, err = patch.Apply(root, ops)
//
// The operation set is closed: append, assert, clear, copy, del,
// extend, insert, move, reverse, set, sort, update.
package patch
