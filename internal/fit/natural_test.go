// internal/fit/natural_test.go
package fit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/fit"
)

func TestNaturalSizeComputedWins(t *testing.T) {
	t.Parallel()

	box := schemas.BoxMetrics{
		Computed: size(800, 600),
		Inline:   size(400, 300),
		Children: []schemas.Rect{{Width: 2000, Height: 2000}},
	}
	assert.Equal(t, size(800, 600), fit.NaturalSize(box))
}

func TestNaturalSizeInlineFallback(t *testing.T) {
	t.Parallel()

	// Computed height missing, so the inline declaration takes over.
	box := schemas.BoxMetrics{
		Computed: schemas.Size{Width: 800},
		Inline:   size(400, 300),
	}
	assert.Equal(t, size(400, 300), fit.NaturalSize(box))
}

// TestNaturalSizeChildrenExtent covers the sizeless-container case: the
// element itself reports nothing but its absolutely positioned children
// span a real area.
func TestNaturalSizeChildrenExtent(t *testing.T) {
	t.Parallel()

	box := schemas.BoxMetrics{
		Children: []schemas.Rect{
			{X: 0, Y: 0, Width: 640, Height: 200},
			{X: 100, Y: 150, Width: 300, Height: 330},
		},
	}
	// Extents: max right = 640, max bottom = 150+330 = 480.
	assert.Equal(t, size(640, 480), fit.NaturalSize(box))
}

func TestNaturalSizeMixesComputedAndChildren(t *testing.T) {
	t.Parallel()

	// One computed axis is real, the other comes from the children.
	box := schemas.BoxMetrics{
		Computed: schemas.Size{Width: 1024},
		Children: []schemas.Rect{{X: 0, Y: 0, Width: 200, Height: 768}},
	}
	assert.Equal(t, size(1024, 768), fit.NaturalSize(box))
}

func TestNaturalSizeEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, schemas.Size{}, fit.NaturalSize(schemas.BoxMetrics{}))
}
