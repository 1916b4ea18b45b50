// internal/fit/resolver_test.go
package fit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/fit"
)

// TestResolveDesignSizePriority walks the source chain top to bottom,
// removing one source at a time and checking the next one wins.
func TestResolveDesignSizePriority(t *testing.T) {
	t.Parallel()

	in := fit.ResolveInput{
		Explicit:   size(1280, 720),
		Ratio:      16.0 / 9.0,
		Viewport:   size(1024, 768),
		Detected:   size(900, 450),
		AutoDetect: true,
		Measured:   size(640, 480),
	}

	// 1. Explicit size beats everything.
	assert.Equal(t, size(1280, 720), fit.ResolveDesignSize(in))

	// 2. Without it, the ratio is fitted inside the viewport. The 1024x768
	// viewport (ratio 1.33) is narrower than 16:9, so width limits:
	// height = round(1024 / 1.7778) = 576.
	in.Explicit = schemas.Size{}
	assert.Equal(t, size(1024, 576), fit.ResolveDesignSize(in))

	// 3. Without a ratio, the carried-over detected size wins.
	in.Ratio = 0
	assert.Equal(t, size(900, 450), fit.ResolveDesignSize(in))

	// 4. Without a detected size, the measured size wins while auto-detect
	// is on.
	in.Detected = schemas.Size{}
	assert.Equal(t, size(640, 480), fit.ResolveDesignSize(in))

	// ...and is skipped when auto-detect is off.
	in.AutoDetect = false
	assert.Equal(t, size(1024, 768), fit.ResolveDesignSize(in))

	// 5. The viewport itself is the second-to-last resort.
	in.AutoDetect = true
	in.Measured = schemas.Size{}
	assert.Equal(t, size(1024, 768), fit.ResolveDesignSize(in))

	// 6. With nothing left, the default holds.
	in.Viewport = schemas.Size{}
	assert.Equal(t, fit.DefaultDesignSize, fit.ResolveDesignSize(in))
}

// TestResolveDesignSizeDegenerate pins the documented fallback: no sources
// at all still yields 1920x1080.
func TestResolveDesignSizeDegenerate(t *testing.T) {
	t.Parallel()

	got := fit.ResolveDesignSize(fit.ResolveInput{})
	assert.Equal(t, size(1920, 1080), got)

	// A zero-sized viewport is as good as an absent one.
	got = fit.ResolveDesignSize(fit.ResolveInput{Viewport: size(0, 768)})
	assert.Equal(t, size(1920, 1080), got)
}

// TestResolveDesignSizeRatioLimiting covers both branches of the ratio
// fitting rule.
func TestResolveDesignSizeRatioLimiting(t *testing.T) {
	t.Parallel()

	ratio := 16.0 / 9.0

	// Viewport wider than 16:9 (ratio 2.37): height limits, width derives.
	// width = round(810 * 1.7778) = 1440.
	got := fit.ResolveDesignSize(fit.ResolveInput{Ratio: ratio, Viewport: size(1920, 810)})
	assert.Equal(t, size(1440, 810), got)
	assert.LessOrEqual(t, got.Width, 1920.0)

	// Viewport narrower than 16:9: width limits, height derives.
	got = fit.ResolveDesignSize(fit.ResolveInput{Ratio: ratio, Viewport: size(1024, 768)})
	assert.Equal(t, size(1024, 576), got)
	assert.LessOrEqual(t, got.Height, 768.0)
}

// TestResolveDesignSizeSixteenNine is the end-to-end ratio scenario: a
// 1024x768 viewport with a "16:9" ratio resolves to a landscape size whose
// ratio sits within 0.1 of 16/9.
func TestResolveDesignSizeSixteenNine(t *testing.T) {
	t.Parallel()

	ratio, ok := schemas.ParseAspectRatio("16:9")
	assert.True(t, ok)

	got := fit.ResolveDesignSize(fit.ResolveInput{Ratio: ratio, Viewport: size(1024, 768)})
	assert.True(t, got.IsValid())
	assert.Greater(t, got.Width, got.Height)
	assert.Less(t, math.Abs(got.Ratio()-16.0/9.0), 0.1)
}
