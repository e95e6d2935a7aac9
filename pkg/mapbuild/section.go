package mapbuild

import "github.com/ifm/ifm/pkg/worldmodel"

// Section is a maximal connected cluster of rooms sharing the same
// integer grid, together with the links whose polylines lie inside it.
type Section struct {
	ID    string
	Title string
	Rooms []*worldmodel.Room
	Links []*worldmodel.Link

	// XLen and YLen are the normalized bounding-box extents: max+1 over
	// every room coordinate and link polyline point in the section.
	XLen, YLen int

	// PageID, OffsetX, OffsetY, and Rotated are assigned by pkg/packer
	// once all sections have been laid out; they are zero until then.
	PageID   string
	OffsetX  int
	OffsetY  int
	Rotated  bool
}

// Result is the complete output of a map-build pass.
type Result struct {
	Sections []*Section
}
