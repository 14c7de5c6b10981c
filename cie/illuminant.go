package cie

import (
	"fmt"
)

var _ = fmt.Print

// Illuminant is a CIE standard illuminant, identified here purely by its
// chromaticity under the 1931 2 degree observer.
type Illuminant int

// Standard illuminants. C is the zero value: the Munsell renotation
// measurements were made under it, so it is the reference frame the rest of
// this module works in.
const (
	C Illuminant = iota
	A
	B
	D50
	D55
	D65
	D75
	E
	F2
	F7
	F11
)

type chromaticity struct {
	x, y float64
}

var illuminantChromaticities = map[Illuminant]chromaticity{
	A:   {0.44757, 0.40745},
	B:   {0.34842, 0.35161},
	C:   {0.31006, 0.31616},
	D50: {0.34570, 0.35850},
	D55: {0.33242, 0.34743},
	D65: {0.31270, 0.32900},
	D75: {0.29902, 0.31485},
	E:   {1.0 / 3.0, 1.0 / 3.0},
	F2:  {0.37208, 0.37529},
	F7:  {0.31292, 0.32933},
	F11: {0.38052, 0.37713},
}

var illuminantNames = map[Illuminant]string{
	A:   "A",
	B:   "B",
	C:   "C",
	D50: "D50",
	D55: "D55",
	D65: "D65",
	D75: "D75",
	E:   "E",
	F2:  "F2",
	F7:  "F7",
	F11: "F11",
}

func (i Illuminant) valid() bool {
	_, ok := illuminantChromaticities[i]
	return ok
}

// Chromaticity returns the illuminant's (x, y) coordinates. Values outside
// the registry read as C rather than as a degenerate zero chromaticity.
func (i Illuminant) Chromaticity() (x, y float64) {
	c, ok := illuminantChromaticities[i]
	if !ok {
		c = illuminantChromaticities[C]
	}
	return c.x, c.y
}

// WhitePoint returns the illuminant's white as an xyY color at unit
// luminance.
func (i Illuminant) WhitePoint() XYY {
	x, y := i.Chromaticity()
	return XYY{X: x, Y: y, Luminance: 1}
}

// WhiteXYZ returns the illuminant's white as tristimulus values normalized
// to Y = 1. Deriving it from the chromaticity means the white is at unit
// luminance no matter how the registry entry was expressed.
func (i Illuminant) WhiteXYZ() XYZ {
	x, y := i.Chromaticity()
	return XYZ{X: x / y, Y: 1, Z: (1 - x - y) / y}
}

func (i Illuminant) String() string {
	if s, ok := illuminantNames[i]; ok {
		return s
	}
	return "unknown"
}
