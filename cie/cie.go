package cie

import (
	"math"
)

// This package holds the CIE colorimetry needed to move between device-ish
// color spaces and the Munsell renotation reference frame: xyY and XYZ value
// types, L*a*b* and its cylindrical LCHab form against an arbitrary reference
// white, the standard illuminant registry and chromatic adaptation between
// illuminants.
//
// Notes:
// - Luminance (the big Y) is carried on [0, 1], with the reference white at 1.
// - All types are plain values; everything here is safe for concurrent use.

// XYY is a CIE xyY color: the (x, y) chromaticity coordinates plus the Y
// tristimulus value, named Luminance to keep it apart from the chromaticity y.
type XYY struct {
	X, Y      float64
	Luminance float64
}

// XYZ is a CIE 1931 tristimulus triple.
type XYZ struct {
	X, Y, Z float64
}

// Lab is CIE 1976 L*a*b*, meaningful only together with the reference white
// it was computed against.
type Lab struct {
	L, A, B float64
}

// LCHab is the cylindrical form of Lab. H is in degrees on [0, 360).
type LCHab struct {
	L, C, H float64
}

// XYZ expands the chromaticity to tristimulus values. A color with no
// luminance has no tristimulus signal, so it maps to the zero XYZ.
func (p XYY) XYZ() XYZ {
	if p.Y <= 0 || p.Luminance == 0 {
		return XYZ{}
	}
	return XYZ{
		X: p.X * p.Luminance / p.Y,
		Y: p.Luminance,
		Z: (1 - p.X - p.Y) * p.Luminance / p.Y,
	}
}

// XYY projects tristimulus values onto the chromaticity plane. The zero
// vector has no direction; it reads as the equal-energy chromaticity at zero
// luminance.
func (t XYZ) XYY() XYY {
	sum := t.X + t.Y + t.Z
	if sum == 0 {
		return XYY{X: 1.0 / 3.0, Y: 1.0 / 3.0}
	}
	return XYY{X: t.X / sum, Y: t.Y / sum, Luminance: t.Y}
}

func finv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	// when t <= delta: 3*delta^2*(t - 4/29)
	return 3 * delta * delta * (t - 4.0/29.0)
}

func ff(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	// t <= delta^3
	return t/(3*delta*delta) + 4.0/29.0
}

// Lab converts tristimulus values to L*a*b* against the given reference
// white. The white is expected at unit luminance; see Illuminant.WhiteXYZ.
func (t XYZ) Lab(white XYZ) Lab {
	fx := ff(t.X / white.X)
	fy := ff(t.Y / white.Y)
	fz := ff(t.Z / white.Z)
	return Lab{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

// XYZ inverts Lab against the given reference white.
func (l Lab) XYZ(white XYZ) XYZ {
	fy := (l.L + 16.0) / 116.0
	fx := fy + (l.A / 500.0)
	fz := fy - (l.B / 200.0)
	return XYZ{
		X: finv(fx) * white.X,
		Y: finv(fy) * white.Y,
		Z: finv(fz) * white.Z,
	}
}

// LCHab converts to the cylindrical form, with the hue angle folded onto
// [0, 360).
func (l Lab) LCHab() LCHab {
	h := math.Atan2(l.B, l.A) * (180.0 / math.Pi)
	if h < 0 {
		h += 360
	}
	return LCHab{L: l.L, C: math.Hypot(l.A, l.B), H: h}
}

// Lab converts back to the rectangular form.
func (c LCHab) Lab() Lab {
	hr := c.H * (math.Pi / 180.0)
	return Lab{L: c.L, A: c.C * math.Cos(hr), B: c.C * math.Sin(hr)}
}
