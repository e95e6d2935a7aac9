// Package tagresolve performs the second pass of the "tag -> pointer
// fix-up" design (SPEC_FULL.md §9): every worldmodel.Ref produced by the
// parser holds only a symbolic tag, and Resolve walks the declaration
// fixing each one up to point at its target object. An unresolved tag
// emits a diagnostic and gets a sentinel object installed in the relevant
// table, so later references to the same undefined tag do not repeat the
// complaint (SPEC_FULL.md §4.2).
package tagresolve
