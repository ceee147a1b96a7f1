// Package query parses and evaluates path expressions against document
// trees.
//
// A path starts at the document root ($) or the current location (@) and
// applies segments left to right:
//
//	$.store.book[0].title
//	$.users{@.age >= 21 && @.active}
//	$.items[1:10:2]
//	$.optional?.field
//
// Resolve threads a set of locations through the segments; each location
// identifies the root or a (container, index) slot that can be read or
// rewritten in place.
package query
