// internal/engine/styleplan.go
package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// PlanInput is everything BuildStylePlan needs for one refresh.
type PlanInput struct {
	Options     schemas.Options
	Mode        schemas.DisplayMode
	Strategy    schemas.FillStrategy
	Viewport    schemas.Size
	Design      schemas.Size
	Scale       float64
	Independent *schemas.ScalePair
}

// BuildStylePlan derives the ordered positioning directives for the current
// geometry. The same input always yields the same plan, rule for rule, so
// reapplying after a no-change refresh cannot drift the layout.
func BuildStylePlan(in PlanInput) schemas.StylePlan {
	plan := schemas.StylePlan{
		Mode:        in.Mode,
		Viewport:    in.Viewport,
		Design:      in.Design,
		Scale:       in.Scale,
		Independent: in.Independent,
	}

	plan.Rules = append(plan.Rules,
		schemas.StyleRule{Target: schemas.TargetViewport, Property: "position", Value: "relative"},
		schemas.StyleRule{Target: schemas.TargetViewport, Property: "overflow", Value: "hidden"},
	)
	if in.Options.BackgroundColor != "" {
		plan.Rules = append(plan.Rules, schemas.StyleRule{
			Target: schemas.TargetViewport, Property: "background-color", Value: in.Options.BackgroundColor,
		})
	}

	if in.Mode == schemas.ModeFill {
		plan.Strategy = in.Strategy
		plan.Rules = append(plan.Rules, fillRules(in)...)
		return plan
	}

	plan.Rules = append(plan.Rules, proportionalRules(in)...)
	return plan
}

// proportionalRules positions the content absolutely, pins it at its design
// size, scales it uniformly from its top-left corner, and centers the
// scaled box when asked to, clamping both offsets at zero.
func proportionalRules(in PlanInput) []schemas.StyleRule {
	rules := []schemas.StyleRule{
		{Target: schemas.TargetContent, Property: "position", Value: "absolute"},
		{Target: schemas.TargetContent, Property: "width", Value: px(in.Design.Width)},
		{Target: schemas.TargetContent, Property: "height", Value: px(in.Design.Height)},
		{Target: schemas.TargetContent, Property: "transform-origin", Value: "0 0"},
	}

	applied := 1.0
	if in.Options.ScaleContent {
		applied = in.Scale
		rules = append(rules, schemas.StyleRule{
			Target: schemas.TargetContent, Property: "transform", Value: scaleTransform(in.Scale, in.Scale),
		})
	} else {
		rules = append(rules, schemas.StyleRule{
			Target: schemas.TargetContent, Property: "transform", Value: "none",
		})
	}

	var offsetX, offsetY float64
	if in.Options.CenterContent {
		offsetX = math.Max(0, (in.Viewport.Width-in.Design.Width*applied)/2)
		offsetY = math.Max(0, (in.Viewport.Height-in.Design.Height*applied)/2)
	}
	rules = append(rules,
		schemas.StyleRule{Target: schemas.TargetContent, Property: "left", Value: px(offsetX)},
		schemas.StyleRule{Target: schemas.TargetContent, Property: "top", Value: px(offsetY)},
	)
	return rules
}

// fillRules stretches the content across the whole viewport, either by
// percentage sizing or by an independent-axis transform, then optionally
// stretches the first child to match.
func fillRules(in PlanInput) []schemas.StyleRule {
	rules := []schemas.StyleRule{
		{Target: schemas.TargetContent, Property: "position", Value: "absolute"},
		{Target: schemas.TargetContent, Property: "left", Value: "0px"},
		{Target: schemas.TargetContent, Property: "top", Value: "0px"},
	}

	switch {
	case in.Strategy == schemas.FillTransform && in.Options.ScaleContent && in.Independent != nil:
		rules = append(rules,
			schemas.StyleRule{Target: schemas.TargetContent, Property: "width", Value: px(in.Design.Width)},
			schemas.StyleRule{Target: schemas.TargetContent, Property: "height", Value: px(in.Design.Height)},
			schemas.StyleRule{Target: schemas.TargetContent, Property: "transform-origin", Value: "0 0"},
			schemas.StyleRule{Target: schemas.TargetContent, Property: "transform", Value: scaleTransform(in.Independent.X, in.Independent.Y)},
		)
	default:
		rules = append(rules,
			schemas.StyleRule{Target: schemas.TargetContent, Property: "width", Value: "100%"},
			schemas.StyleRule{Target: schemas.TargetContent, Property: "height", Value: "100%"},
			schemas.StyleRule{Target: schemas.TargetContent, Property: "transform", Value: "none"},
		)
	}

	if !in.Options.PreserveChildStyles {
		rules = append(rules,
			schemas.StyleRule{Target: schemas.TargetFirstChild, Property: "width", Value: "100%"},
			schemas.StyleRule{Target: schemas.TargetFirstChild, Property: "height", Value: "100%"},
		)
	}
	return rules
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func scaleTransform(x, y float64) string {
	return fmt.Sprintf("scale(%s, %s)",
		strconv.FormatFloat(x, 'f', -1, 64),
		strconv.FormatFloat(y, 'f', -1, 64))
}
