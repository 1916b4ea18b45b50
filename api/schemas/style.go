package schemas

// -- Style Plans --

// StyleTarget names which of the bound elements a rule mutates.
type StyleTarget string

const (
	// TargetViewport is the outer container element.
	TargetViewport StyleTarget = "viewport"
	// TargetContent is the element being scaled.
	TargetContent StyleTarget = "content"
	// TargetFirstChild is the content's first child element. Only fill-mode
	// plans with child-style preservation disabled address it.
	TargetFirstChild StyleTarget = "first-child"
)

// StyleRule is a single property mutation on one target element.
type StyleRule struct {
	Target   StyleTarget `json:"target"`
	Property string      `json:"property"`
	Value    string      `json:"value"`
}

// StylePlan is the complete, ordered set of positioning directives produced
// by one refresh. Applying the same plan twice must be a visual no-op, so
// plans carry everything needed for the mutation and nothing ephemeral.
type StylePlan struct {
	Mode     DisplayMode  `json:"mode"`
	Strategy FillStrategy `json:"strategy,omitempty"`

	// Viewport and Design are the geometry the plan was computed from.
	Viewport Size `json:"viewport"`
	Design   Size `json:"design"`

	// Scale is the uniform factor. Independent is set in fill mode only.
	Scale       float64    `json:"scale"`
	Independent *ScalePair `json:"independent,omitempty"`

	Rules []StyleRule `json:"rules"`
}

// RulesFor returns the plan's rules addressing one target, in order.
func (p StylePlan) RulesFor(target StyleTarget) []StyleRule {
	var out []StyleRule
	for _, r := range p.Rules {
		if r.Target == target {
			out = append(out, r)
		}
	}
	return out
}

// Value returns the last value the plan assigns to property on target, with
// ok=false when the plan never touches it. Later rules win, matching the
// order styles are applied in.
func (p StylePlan) Value(target StyleTarget, property string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, r := range p.Rules {
		if r.Target == target && r.Property == property {
			val, found = r.Value, true
		}
	}
	return val, found
}
