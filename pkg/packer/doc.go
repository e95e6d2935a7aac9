// Package packer packs map sections onto virtual pages whose aspect ratio
// targets a configured value. It implements SPEC_FULL.md §4.4: pure
// integer geometry, grounded on the Pose/Rect bounding-box arithmetic of
// the teacher's pkg/embedding, generalized from room-overlap checking to
// page bin-packing.
package packer
