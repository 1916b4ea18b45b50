// internal/fit/resolver.go
package fit

import (
	"math"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// DefaultDesignSize is the terminal fallback when no other source yields a
// usable design size.
var DefaultDesignSize = schemas.Size{Width: 1920, Height: 1080}

// ResolveInput gathers every candidate source for one resolution pass. Any
// field may be zero; zero means the source is absent.
type ResolveInput struct {
	// Explicit is the configured design width/height.
	Explicit schemas.Size
	// Ratio is the configured aspect ratio; 0 means none was configured.
	Ratio float64
	// Viewport is the current container size.
	Viewport schemas.Size
	// Detected is the content size cached from a prior resolution. It lets
	// a mode switch re-resolve without re-measuring.
	Detected schemas.Size
	// AutoDetect gates the Measured source.
	AutoDetect bool
	// Measured is the content element's natural size from this pass.
	Measured schemas.Size
}

// ResolveDesignSize picks the authoritative design size from the prioritized
// sources in in. The first source whose width and height are both positive
// wins:
//
//  1. the explicit configured size,
//  2. the configured aspect ratio fitted inside the viewport,
//  3. the detected size carried over from a prior resolution,
//  4. the measured natural size, when auto-detection is enabled,
//  5. the viewport itself,
//  6. the 1920x1080 default.
//
// It never fails; the default guarantees a usable result.
func ResolveDesignSize(in ResolveInput) schemas.Size {
	if in.Explicit.IsValid() {
		return in.Explicit
	}

	if in.Ratio > 0 && in.Viewport.IsValid() {
		return ratioWithinViewport(in.Ratio, in.Viewport)
	}

	if in.Detected.IsValid() {
		return in.Detected
	}

	if in.AutoDetect && in.Measured.IsValid() {
		return in.Measured
	}

	if in.Viewport.IsValid() {
		return in.Viewport
	}

	return DefaultDesignSize
}

// ratioWithinViewport fits the target ratio inside the viewport. When the
// viewport is wider than the target ratio, height is the limiting dimension;
// otherwise width is. The result never exceeds the viewport on either axis
// and matches the target ratio exactly (up to rounding of the derived
// dimension).
func ratioWithinViewport(ratio float64, viewport schemas.Size) schemas.Size {
	if viewport.Ratio() > ratio {
		return schemas.Size{
			Width:  math.Round(viewport.Height * ratio),
			Height: viewport.Height,
		}
	}
	return schemas.Size{
		Width:  viewport.Width,
		Height: math.Round(viewport.Width / ratio),
	}
}
