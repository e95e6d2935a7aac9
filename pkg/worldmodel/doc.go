// Package worldmodel defines the static, declaration-time data model for an
// interactive-fiction world: rooms, items, links, joins, and tasks. Every
// object carries a stable declaration-order id and an optional symbolic tag.
// Fields that reference other objects by tag are held as a Ref until the
// tag resolver (pkg/tagresolve) fixes them up to a pointer.
//
// Live, mutable solver state (item.taken, item.room, step.done, ...) is
// deliberately absent from these structs; it is tracked separately by
// pkg/planner so that the static world description can be constructed,
// validated, and serialized independently of any particular solve.
package worldmodel
