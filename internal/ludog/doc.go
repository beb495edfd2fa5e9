// Package ludog is the object store of a small expression language front
// end: blocks of statements, let bindings, calls with positional arguments,
// operators and literals.
//
// Every entity type lives in its own keyed collection inside a Store.
// Records reference each other by identifier. Relationships are navigated
// with methods named after the relationship number and the target type:
//
//	stmt.R18Block(s)          // forward, required: panics on a dangling key
//	stmt.R17Statement(s)      // forward, optional: nil when unset
//	block.R18Statement(s)     // backward, one-to-many
//	stmt.R17CStatement(s)     // backward, conditional
//	call.R15Expression(s)     // subtype to supertype
//
// Backward navigation is served by reverse indexes maintained on every
// inter, not by scanning.
//
// Closed sum types are tagged unions: the supertype record carries a Kind
// and, for non-unit variants, the identifier of the independently stored
// subtype record. R15Subtype and friends resolve the tag into the concrete
// record.
//
// Data from outside the process enters through FromSnapshot or FromDocument,
// both of which run Verify and report dangling references as errors rather
// than leaving them for a navigator to panic on.
package ludog
