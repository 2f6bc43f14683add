// Package domain defines the core types of the inspection network model.
//
// Item types come in two groups. Inspected item types own an ordered list of
// rated components; non-inspected item types are reference or navigation
// categories. Either group declares a kind: point items sit at a single
// station, linear items span between two point items.
//
// Collections are independent physical networks (one canal each) holding an
// ordered list of items. The linear items of a collection are expected to
// form a connected graph over the point items they reference.
//
// # Two Views
//
// Settings is the nested tree a UI edits directly. Database is the flat,
// id-indexed form that gets persisted: ordered id lists paired with
// id -> record maps. The normalize package converts between the two.
//
// # Design Principles
//
// - No behaviour beyond lookups and copying
// - Invariants are checked by the validation package, not by construction
// - No database or external dependencies
package domain
