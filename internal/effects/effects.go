package effects

// Effect enumerates the closed set of animations. Auto-cycling walks this
// list in declaration order and wraps.
type Effect uint8

const (
	StaticColor Effect = iota
	RainbowChase
	Fire
	Breathe
	TheaterChase
	Twinkle

	numEffects
)

var effectNames = [numEffects]string{
	"static_color",
	"rainbow_chase",
	"fire",
	"breathe",
	"theater_chase",
	"twinkle",
}

func (e Effect) String() string {
	if e < numEffects {
		return effectNames[e]
	}
	return "unknown"
}

// EffectByName resolves a control-surface name back to an Effect.
func EffectByName(name string) (Effect, bool) {
	for i, n := range effectNames {
		if n == name {
			return Effect(i), true
		}
	}
	return 0, false
}

// Names lists every effect name in cycle order.
func Names() []string {
	return effectNames[:]
}

// next returns the effect after e, wrapping past the end of the list.
func (e Effect) next() Effect {
	return (e + 1) % numEffects
}

// ColorSpace selects how the rainbow effect renders its colors: vibrant
// (HSV), pastel (HSL, fixed 50% lightness) or the raw three-segment wheel.
type ColorSpace uint8

const (
	SpaceHSV ColorSpace = iota
	SpaceHSL
	SpaceRGB
)

var spaceNames = [...]string{"hsv", "hsl", "rgb"}

func (c ColorSpace) String() string {
	if int(c) < len(spaceNames) {
		return spaceNames[c]
	}
	return "unknown"
}

// SpaceByName resolves a color-space name.
func SpaceByName(name string) (ColorSpace, bool) {
	for i, n := range spaceNames {
		if n == name {
			return ColorSpace(i), true
		}
	}
	return 0, false
}
