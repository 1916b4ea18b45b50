// internal/engine/styleplan_test.go
package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/engine"
)

func planValue(t *testing.T, plan schemas.StylePlan, target schemas.StyleTarget, prop string) string {
	t.Helper()
	v, ok := plan.Value(target, prop)
	require.True(t, ok, "plan should set %s on %s", prop, target)
	return v
}

func TestProportionalPlanCentersScaledContent(t *testing.T) {
	t.Parallel()

	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  schemas.DefaultOptions(),
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 1000, Height: 500},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    0.8,
	})

	assert.Equal(t, "relative", planValue(t, plan, schemas.TargetViewport, "position"))
	assert.Equal(t, "hidden", planValue(t, plan, schemas.TargetViewport, "overflow"))

	assert.Equal(t, "absolute", planValue(t, plan, schemas.TargetContent, "position"))
	assert.Equal(t, "800px", planValue(t, plan, schemas.TargetContent, "width"))
	assert.Equal(t, "600px", planValue(t, plan, schemas.TargetContent, "height"))
	assert.Equal(t, "0 0", planValue(t, plan, schemas.TargetContent, "transform-origin"))
	assert.Equal(t, "scale(0.8, 0.8)", planValue(t, plan, schemas.TargetContent, "transform"))

	// Scaled content is 640x480 inside 1000x500: offsets (180, 10).
	assert.Equal(t, "180px", planValue(t, plan, schemas.TargetContent, "left"))
	assert.Equal(t, "10px", planValue(t, plan, schemas.TargetContent, "top"))
}

func TestProportionalPlanClampsOffsets(t *testing.T) {
	t.Parallel()

	// Scale 1.2 makes the content taller than the viewport; the vertical
	// offset clamps to zero instead of going negative.
	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  schemas.DefaultOptions(),
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 1000, Height: 500},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    1.2,
	})

	// (1000 - 960)/2 = 20; (500 - 720)/2 clamps to 0.
	assert.Equal(t, "20px", planValue(t, plan, schemas.TargetContent, "left"))
	assert.Equal(t, "0px", planValue(t, plan, schemas.TargetContent, "top"))
}

func TestProportionalPlanWithoutCentering(t *testing.T) {
	t.Parallel()

	opts := schemas.DefaultOptions()
	opts.CenterContent = false

	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  opts,
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 1000, Height: 500},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    0.8,
	})

	assert.Equal(t, "0px", planValue(t, plan, schemas.TargetContent, "left"))
	assert.Equal(t, "0px", planValue(t, plan, schemas.TargetContent, "top"))
}

func TestProportionalPlanWithoutScaling(t *testing.T) {
	t.Parallel()

	opts := schemas.DefaultOptions()
	opts.ScaleContent = false

	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  opts,
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 1000, Height: 500},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    0.8,
	})

	// No transform, and centering math uses the unscaled box.
	assert.Equal(t, "none", planValue(t, plan, schemas.TargetContent, "transform"))
	assert.Equal(t, "100px", planValue(t, plan, schemas.TargetContent, "left"))
	assert.Equal(t, "0px", planValue(t, plan, schemas.TargetContent, "top"))
}

func TestFillPlanStretch(t *testing.T) {
	t.Parallel()

	pair := &schemas.ScalePair{X: 1.25, Y: 5.0 / 6.0}
	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:     schemas.DefaultOptions(),
		Mode:        schemas.ModeFill,
		Strategy:    schemas.FillStretch,
		Viewport:    schemas.Size{Width: 1000, Height: 500},
		Design:      schemas.Size{Width: 800, Height: 600},
		Scale:       1.25,
		Independent: pair,
	})

	assert.Equal(t, schemas.FillStretch, plan.Strategy)
	assert.Equal(t, "100%", planValue(t, plan, schemas.TargetContent, "width"))
	assert.Equal(t, "100%", planValue(t, plan, schemas.TargetContent, "height"))
	assert.Equal(t, "none", planValue(t, plan, schemas.TargetContent, "transform"))

	// Child styles preserved by default: no first-child rules.
	assert.Empty(t, plan.RulesFor(schemas.TargetFirstChild))
}

func TestFillPlanTransform(t *testing.T) {
	t.Parallel()

	pair := &schemas.ScalePair{X: 1.25, Y: 5.0 / 6.0}
	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:     schemas.DefaultOptions(),
		Mode:        schemas.ModeFill,
		Strategy:    schemas.FillTransform,
		Viewport:    schemas.Size{Width: 1000, Height: 500},
		Design:      schemas.Size{Width: 800, Height: 600},
		Scale:       1.25,
		Independent: pair,
	})

	assert.Equal(t, schemas.FillTransform, plan.Strategy)
	assert.Equal(t, "800px", planValue(t, plan, schemas.TargetContent, "width"))
	assert.Equal(t, "600px", planValue(t, plan, schemas.TargetContent, "height"))
	assert.Equal(t, "scale(1.25, 0.8333333333333334)", planValue(t, plan, schemas.TargetContent, "transform"))
}

func TestFillPlanStretchesFirstChild(t *testing.T) {
	t.Parallel()

	opts := schemas.DefaultOptions()
	opts.PreserveChildStyles = false

	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  opts,
		Mode:     schemas.ModeFill,
		Strategy: schemas.FillStretch,
		Viewport: schemas.Size{Width: 1000, Height: 500},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    1.25,
	})

	assert.Equal(t, "100%", planValue(t, plan, schemas.TargetFirstChild, "width"))
	assert.Equal(t, "100%", planValue(t, plan, schemas.TargetFirstChild, "height"))
}

func TestPlanBackgroundColor(t *testing.T) {
	t.Parallel()

	opts := schemas.DefaultOptions()
	opts.BackgroundColor = "#101418"

	plan := engine.BuildStylePlan(engine.PlanInput{
		Options:  opts,
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 800, Height: 600},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    1,
	})
	assert.Equal(t, "#101418", planValue(t, plan, schemas.TargetViewport, "background-color"))

	// Without a configured color the plan leaves the background alone.
	plain := engine.BuildStylePlan(engine.PlanInput{
		Options:  schemas.DefaultOptions(),
		Mode:     schemas.ModeProportional,
		Viewport: schemas.Size{Width: 800, Height: 600},
		Design:   schemas.Size{Width: 800, Height: 600},
		Scale:    1,
	})
	_, ok := plain.Value(schemas.TargetViewport, "background-color")
	assert.False(t, ok)
}
