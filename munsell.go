package munsell

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// ChromaEpsilon is the chroma below which a color is reported as achromatic.
// Conversions never return a chromatic Spec with a smaller chroma; they
// collapse it to the neutral variant instead.
const ChromaEpsilon = 1e-3

// HueFamily identifies one of the ten Munsell hue families by its renotation
// code. The codes are arranged so that code%10+1 names the preceding family
// on the hue circle: hue 0 of a family is the same color as hue 10 of its
// predecessor (0R coincides with 10RP).
type HueFamily int

const (
	B  HueFamily = 1 + iota // blue
	BG                      // blue-green
	G                       // green
	GY                      // green-yellow
	Y                       // yellow
	YR                      // yellow-red
	R                       // red
	RP                      // red-purple
	P                       // purple
	PB                      // purple-blue
)

var familyNames = map[HueFamily]string{
	B: "B", BG: "BG", G: "G", GY: "GY", Y: "Y",
	YR: "YR", R: "R", RP: "RP", P: "P", PB: "PB",
}

func (f HueFamily) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	if f == 0 {
		return "N"
	}
	return fmt.Sprintf("HueFamily(%d)", int(f))
}

func (f HueFamily) valid() bool {
	_, ok := familyNames[f]
	return ok
}

// precededBy returns the family whose hue 10 coincides with hue 0 of f.
func (f HueFamily) precededBy() HueFamily {
	return f%10 + 1
}

// Spec is a Munsell specification: hue step within a family, family code,
// value (lightness) and chroma. The zero Code marks the achromatic variant,
// which carries only Value; use Neutral to construct it. Hue is on [0, 10]
// where hue 0 reads as hue 10 of the preceding family, Value on [0, 10] and
// Chroma is non-negative, even beyond the renotation measurements.
type Spec struct {
	Hue    float64
	Code   HueFamily
	Value  float64
	Chroma float64
}

// Neutral returns the achromatic specification at the given value.
func Neutral(value float64) Spec {
	return Spec{Value: value}
}

// IsNeutral reports whether the specification is achromatic.
func (s Spec) IsNeutral() bool {
	return s.Code == 0
}

func (s Spec) String() string {
	if s.IsNeutral() {
		return fmt.Sprintf("N %.2f/", s.Value)
	}
	return fmt.Sprintf("%.1f%s %.2f/%.2f", s.Hue, s.Code, s.Value, s.Chroma)
}

func (s Spec) validate() error {
	if math.IsNaN(s.Value) || s.Value < 0 || s.Value > 10 {
		return domainError("value", s.Value, 0, 10)
	}
	if s.IsNeutral() {
		return nil
	}
	if !s.Code.valid() {
		return fmt.Errorf("invalid hue family code %d", int(s.Code))
	}
	if math.IsNaN(s.Hue) || s.Hue < 0 || s.Hue > 10 {
		return domainError("hue", s.Hue, 0, 10)
	}
	if math.IsNaN(s.Chroma) || s.Chroma < 0 {
		return domainError("chroma", s.Chroma, 0, math.Inf(1))
	}
	return nil
}

// Normalize returns the canonical form of the specification: chroma under
// ChromaEpsilon collapses to the neutral variant, and a zero hue rolls over
// to hue 10 of the preceding family so every chromatic hue lands on (0, 10].
// Specifications already in canonical form come back unchanged.
func (s Spec) Normalize() Spec {
	if s.IsNeutral() {
		return Neutral(s.Value)
	}
	if s.Chroma < ChromaEpsilon {
		return Neutral(s.Value)
	}
	if s.Hue == 0 {
		s.Hue, s.Code = 10, s.Code.precededBy()
	}
	return s
}
