package schemas

import "strings"

// -- Display Modes --

// DisplayMode is the scaling policy applied to a bound container. Exactly
// two variants exist; every input string resolves to one of them.
type DisplayMode string

const (
	// ModeProportional preserves the design aspect ratio and letterboxes
	// the remainder of the viewport. This is the default.
	ModeProportional DisplayMode = "proportional"
	// ModeFill stretches the content to cover the whole viewport, cropping
	// or distorting as needed. Its canonical configuration string is
	// "fullscreen".
	ModeFill DisplayMode = "fullscreen"
)

// ResolveDisplayMode maps an arbitrary input string onto a DisplayMode. The
// two canonical strings match case-insensitively; everything else, including
// the empty string, resolves to ModeProportional. It never fails.
func ResolveDisplayMode(input string) DisplayMode {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(ModeFill):
		return ModeFill
	case string(ModeProportional):
		return ModeProportional
	default:
		return ModeProportional
	}
}

// -- Fill Strategies --

// FillStrategy selects how fill mode stretches content across the viewport.
// Historically both behaviors shipped behind an implicit flag; here the
// choice is an explicit option.
type FillStrategy string

const (
	// FillStretch sizes the content to 100% of the viewport on both axes
	// using percentage dimensions. This is the default.
	FillStretch FillStrategy = "stretch"
	// FillTransform applies independent X/Y scale transforms instead of
	// percentage sizing, leaving the content's declared dimensions intact.
	FillTransform FillStrategy = "transform"
)

// ResolveFillStrategy maps an arbitrary input string onto a FillStrategy,
// defaulting to FillStretch. Like ResolveDisplayMode it is total.
func ResolveFillStrategy(input string) FillStrategy {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(FillTransform):
		return FillTransform
	case string(FillStretch):
		return FillStretch
	default:
		return FillStretch
	}
}
