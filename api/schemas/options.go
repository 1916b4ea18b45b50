package schemas

import "strconv"

// -- Engine Options --

// ResizeHandler receives the viewport dimensions and computed scale after
// every successful refresh. The pair is non-nil only in fill mode.
type ResizeHandler func(viewportWidth, viewportHeight, scale float64, pair *ScalePair)

// ModeChangeHandler receives the new mode after an initialized engine
// switches policies.
type ModeChangeHandler func(mode DisplayMode)

// Options is the full configuration surface of one engine instance. The
// zero value is not useful; start from DefaultOptions.
type Options struct {
	// DesignWidth and DesignHeight pin the design size explicitly. They are
	// the highest-priority source during design-size resolution and only
	// count when both are positive.
	DesignWidth  float64 `json:"designWidth" mapstructure:"design_width"`
	DesignHeight float64 `json:"designHeight" mapstructure:"design_height"`

	// AspectRatio is either a "W:H" string or a plain positive number.
	// Malformed values are treated as absent.
	AspectRatio string `json:"aspectRatio" mapstructure:"aspect_ratio"`

	// Mode is "proportional" or "fullscreen", matched case-insensitively.
	// Anything else falls back to proportional.
	Mode string `json:"mode" mapstructure:"mode"`

	// FillStrategy is "stretch" or "transform"; it only applies in fill
	// mode. Anything else falls back to stretch.
	FillStrategy string `json:"fillStrategy" mapstructure:"fill_strategy"`

	// AutoDetect enables measuring the content element's natural size as a
	// design-size fallback.
	AutoDetect bool `json:"autoDetect" mapstructure:"auto_detect"`

	// BackgroundColor, when set, is painted onto the viewport element.
	BackgroundColor string `json:"backgroundColor" mapstructure:"background_color"`

	// ScaleContent applies the computed scale transform to the content.
	// Disabling it pins the content at its design size without scaling.
	ScaleContent bool `json:"scaleContent" mapstructure:"scale_content"`

	// CenterContent centers the scaled content inside the viewport.
	// Proportional mode only.
	CenterContent bool `json:"centerContent" mapstructure:"center_content"`

	// PreserveChildStyles leaves the content's children untouched in fill
	// mode. When false, the first child is stretched to fill the content
	// box (a background image set to cover, typically).
	PreserveChildStyles bool `json:"preserveChildStyles" mapstructure:"preserve_child_styles"`

	// OnResize fires after every successful refresh.
	OnResize ResizeHandler `json:"-" mapstructure:"-"`

	// OnModeChange fires when an initialized engine changes mode.
	OnModeChange ModeChangeHandler `json:"-" mapstructure:"-"`
}

// DefaultOptions returns the documented option defaults: proportional mode,
// stretch fill, scaling and centering on, child styles preserved.
func DefaultOptions() Options {
	return Options{
		Mode:                string(ModeProportional),
		FillStrategy:        string(FillStretch),
		ScaleContent:        true,
		CenterContent:       true,
		PreserveChildStyles: true,
	}
}

// Ratio resolves the configured aspect ratio to a number. It accepts the
// "W:H" form first, then a bare positive float. The second return is false
// when neither form yields a positive ratio.
func (o Options) Ratio() (float64, bool) {
	if r, ok := ParseAspectRatio(o.AspectRatio); ok {
		return r, true
	}
	if v, err := strconv.ParseFloat(o.AspectRatio, 64); err == nil && v > 0 {
		return v, true
	}
	return 0, false
}

// DisplayMode resolves the configured mode string.
func (o Options) DisplayMode() DisplayMode {
	return ResolveDisplayMode(o.Mode)
}

// Fill resolves the configured fill strategy string.
func (o Options) Fill() FillStrategy {
	return ResolveFillStrategy(o.FillStrategy)
}
