// Package direction provides the fixed twelve-entry compass/vertical/in-out
// direction table used by the map builder to turn declared direction
// sequences into grid polylines, and by renderers to pick exit glyphs.
package direction
