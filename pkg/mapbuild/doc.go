// Package mapbuild places rooms on an integer grid, groups them into
// connected sections, traces link paths as integer polylines, and
// normalizes each section's coordinates to a non-negative origin. It
// implements SPEC_FULL.md §4.3, grounded on the BFS-layering placement
// and all-pairs overlap-check patterns of the teacher's orthogonal
// embedder (pkg/embedding/orthogonal.go, pkg/embedding/layout.go).
package mapbuild
