// internal/fit/fuzz_test.go
package fit_test

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/fit"
)

// -- Fuzz Testing --
// The resolver and calculator are total functions over their numeric
// domains; fuzzing hunts for panics and broken ordering invariants.

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FuzzProportionalScale checks that cover never scales below contain and
// that degenerate content always yields the neutral factor.
func FuzzProportionalScale(f *testing.F) {
	f.Add(800.0, 600.0, 1600.0, 900.0)
	f.Add(800.0, 600.0, 1000.0, 500.0)
	f.Add(0.0, 0.0, 0.0, 0.0)
	f.Add(1.0, 1.0, -5.0, 3.0)

	f.Fuzz(func(t *testing.T, vw, vh, cw, ch float64) {
		if !finite(vw, vh, cw, ch) {
			t.Skip("non-finite input")
		}
		viewport := schemas.Size{Width: vw, Height: vh}
		content := schemas.Size{Width: cw, Height: ch}

		contain := fit.ProportionalScale(viewport, content, false)
		cover := fit.ProportionalScale(viewport, content, true)

		if !content.IsValid() {
			assert.Equal(t, 1.0, contain)
			assert.Equal(t, 1.0, cover)
			return
		}
		// max of the axis ratios can never undercut their min.
		assert.GreaterOrEqual(t, cover, contain)
	})
}

// FuzzResolveDesignSize populates the whole input struct and verifies the
// resolver stays total: no panics, and the default appears exactly when no
// source is usable.
func FuzzResolveDesignSize(f *testing.F) {
	f.Add([]byte("screenfit"))
	f.Add([]byte{0x00, 0xff, 0x10, 0x80, 0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzConsumer := fuzz.NewConsumer(data)
		var in fit.ResolveInput
		if err := fuzzConsumer.GenerateStruct(&in); err != nil {
			t.Skip("not enough entropy to build the struct")
		}
		if !finite(in.Explicit.Width, in.Explicit.Height, in.Ratio,
			in.Viewport.Width, in.Viewport.Height,
			in.Detected.Width, in.Detected.Height,
			in.Measured.Width, in.Measured.Height) {
			t.Skip("non-finite input")
		}

		got := fit.ResolveDesignSize(in)

		noSource := !in.Explicit.IsValid() &&
			!(in.Ratio > 0 && in.Viewport.IsValid()) &&
			!in.Detected.IsValid() &&
			!(in.AutoDetect && in.Measured.IsValid()) &&
			!in.Viewport.IsValid()
		if noSource {
			assert.Equal(t, fit.DefaultDesignSize, got)
		}
		if in.Explicit.IsValid() {
			assert.Equal(t, in.Explicit, got)
		}
	})
}
