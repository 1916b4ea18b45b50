// internal/fit/scale.go
package fit

import (
	"math"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// -- Scale Calculator --

// ProportionalScale computes the single uniform factor that maps content
// onto viewport. With cover=false the smaller axis ratio wins, so the whole
// content stays visible and the viewport may letterbox. With cover=true the
// larger ratio wins, so the viewport is fully covered and content may
// overflow. A content size with a non-positive dimension yields the neutral
// factor 1; the division is never attempted.
func ProportionalScale(viewport, content schemas.Size, cover bool) float64 {
	if !content.IsValid() {
		return 1
	}
	widthRatio := viewport.Width / content.Width
	heightRatio := viewport.Height / content.Height
	if cover {
		return math.Max(widthRatio, heightRatio)
	}
	return math.Min(widthRatio, heightRatio)
}

// IndependentScale computes per-axis factors that make content exactly fill
// viewport on both axes, distorting the aspect ratio. Only fill mode uses
// it. Degenerate content yields the neutral pair {1, 1}.
func IndependentScale(viewport, content schemas.Size) schemas.ScalePair {
	if !content.IsValid() {
		return schemas.ScalePair{X: 1, Y: 1}
	}
	return schemas.ScalePair{
		X: viewport.Width / content.Width,
		Y: viewport.Height / content.Height,
	}
}
