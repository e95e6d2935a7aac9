package worldmodel

import "fmt"

// Ref is a tag reference that has not yet been resolved to a pointer, or
// has just been resolved. Parsing produces Refs holding only a Tag; the
// tag resolver (pkg/tagresolve) walks every Ref in the declaration and
// fixes it up to point at the referenced object, per the "two-pass tag ->
// pointer fix-up" design in SPEC_FULL.md §9.
type Ref[T any] struct {
	Tag string
	obj *T
}

// NewRef creates an unresolved reference to the given tag.
func NewRef[T any](tag string) Ref[T] {
	return Ref[T]{Tag: tag}
}

// Resolved reports whether this reference has been fixed up to a pointer.
func (r Ref[T]) Resolved() bool {
	return r.obj != nil
}

// Get returns the resolved object, or nil if the reference has not been
// resolved yet (or resolution failed and a sentinel was never installed).
func (r Ref[T]) Get() *T {
	return r.obj
}

// Resolve fixes the reference to point at obj. Called exactly once per
// reference by the tag resolver.
func (r *Ref[T]) Resolve(obj *T) {
	r.obj = obj
}

// String renders the reference for diagnostics: the tag if unresolved,
// or a resolved marker otherwise.
func (r Ref[T]) String() string {
	if r.obj == nil {
		return fmt.Sprintf("<unresolved:%s>", r.Tag)
	}
	return fmt.Sprintf("<resolved:%s>", r.Tag)
}
