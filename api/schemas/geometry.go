package schemas

import (
	"fmt"
	"strconv"
	"strings"
)

// -- Geometry Primitives --

// Size is a width/height pair in logical pixels. It is used interchangeably
// for viewport sizes, design sizes, and measured content sizes.
type Size struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// IsValid reports whether both dimensions are strictly positive. A Size that
// fails this check must never be used as a scaling denominator.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// Ratio returns the width/height aspect ratio, or 0 when the Size is not
// valid.
func (s Size) Ratio() float64 {
	if !s.IsValid() {
		return 0
	}
	return s.Width / s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is an axis-aligned box positioned relative to some origin. Child
// boxes reported by element measurement use the parent's top-left corner as
// the origin.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// ScalePair holds independent horizontal and vertical scale factors. It is
// produced for fill-mode layouts where the two axes stretch separately and
// the aspect ratio is not preserved.
type ScalePair struct {
	X float64 `json:"scaleX"`
	Y float64 `json:"scaleY"`
}

// BoxMetrics is the raw measurement of one element, gathered by a display
// binding and consumed by natural-size detection. A zero Size means the
// corresponding measurement was unavailable.
type BoxMetrics struct {
	// Computed is the element's resolved box size.
	Computed Size `json:"computed"`
	// Inline is the author-set inline width/height, when both were declared.
	Inline Size `json:"inline"`
	// Children holds the boxes of the element's direct children, positioned
	// relative to the element's own top-left corner.
	Children []Rect `json:"children,omitempty"`
}

// -- Aspect Ratio Parsing --

// ParseAspectRatio derives a numeric aspect ratio from a "W:H" string. Both
// halves are parsed as floating point and divided; no reduction or
// normalization is applied. The second return is false exactly when the
// string has no colon, either half fails to parse, or the denominator is
// zero or negative.
func ParseAspectRatio(s string) (float64, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || h == 0 {
		return 0, false
	}
	ratio := w / h
	if ratio <= 0 {
		return 0, false
	}
	return ratio, true
}
