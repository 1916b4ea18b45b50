// internal/fit/natural.go
package fit

import (
	"math"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// NaturalSize determines an element's intrinsic size from its raw box
// metrics. Sources in order: the computed box when both dimensions are
// positive, then the author-set inline size, then the bounding extent of
// the direct children taken against the element's own origin. The children
// fallback covers containers with no size of their own whose absolutely
// positioned children carry the real dimensions; on each axis the larger of
// the computed size and the children's extent wins.
func NaturalSize(box schemas.BoxMetrics) schemas.Size {
	if box.Computed.IsValid() {
		return box.Computed
	}
	if box.Inline.IsValid() {
		return box.Inline
	}

	var extentW, extentH float64
	for _, child := range box.Children {
		extentW = math.Max(extentW, child.Right())
		extentH = math.Max(extentH, child.Bottom())
	}
	return schemas.Size{
		Width:  math.Max(box.Computed.Width, extentW),
		Height: math.Max(box.Computed.Height, extentH),
	}
}
