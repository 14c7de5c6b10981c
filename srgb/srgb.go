// Package srgb converts between sRGB encoded component values and CIE
// colorimetry under the sRGB reference conditions (IEC 61966-2-1, D65 white).
// It is the front door for feeding image pixels to the Munsell solver: decode
// a pixel to linear light, take it to xyY, chromatically adapt D65 → C, and
// solve. None of the intermediate math clamps, so out-of-gamut colors pass
// through undistorted; only the final encoded components of XYYToSRGB are
// clipped to the displayable [0, 1] cube.
package srgb

import (
	"math"

	"github.com/kovidgoyal/munsell/cie"
)

// ToLinear decodes one sRGB component to linear light. The transfer function
// is extended to negative inputs as an odd function, the way ICC and IEC both
// extend it, so slightly out-of-range values survive a round trip instead of
// folding onto zero.
func ToLinear(v float64) float64 {
	s := 1.0
	if v < 0 {
		v, s = -v, -1
	}
	if v <= 0.04045 {
		return s * v / 12.92
	}
	return s * math.Pow((v+0.055)/1.055, 2.4)
}

// FromLinear encodes one linear-light component to sRGB. Like ToLinear it is
// odd in its argument and does not clamp.
func FromLinear(v float64) float64 {
	s := 1.0
	if v < 0 {
		v, s = -v, -1
	}
	if v <= 0.0031308 {
		return s * 12.92 * v
	}
	return s * (1.055*math.Pow(v, 1/2.4) - 0.055)
}

// Linear sRGB → XYZ for the reference D65 white, from the sRGB standard. The
// reverse matrix is computed, not transcribed, so the two directions invert
// each other to machine precision.
var xyzFromLinear = cie.Mat3{
	{0.4124564, 0.3575761, 0.1804375},
	{0.2126729, 0.7151522, 0.0721750},
	{0.0193339, 0.1191920, 0.9503041},
}

var linearFromXYZ cie.Mat3

func init() {
	var err error
	if linearFromXYZ, err = xyzFromLinear.Inverted(); err != nil {
		panic(err)
	}
}

// LinearRGBToXYZ takes linear-light sRGB components to tristimulus values
// under D65. Components outside [0, 1] are legal and map to out-of-gamut
// tristimulus values.
func LinearRGBToXYZ(r, g, b float64) cie.XYZ {
	v := xyzFromLinear.MulVec(cie.Vec3{r, g, b})
	return cie.XYZ{X: v[0], Y: v[1], Z: v[2]}
}

// XYZToLinearRGB is the exact inverse of LinearRGBToXYZ. The result is not
// clamped.
func XYZToLinearRGB(t cie.XYZ) (r, g, b float64) {
	v := linearFromXYZ.MulVec(cie.Vec3{t.X, t.Y, t.Z})
	return v[0], v[1], v[2]
}

// SRGBToXYY converts encoded sRGB components, nominally in [0, 1], to xyY
// chromaticity and luminance under D65. Pure black carries no chromaticity of
// its own and reads as the equal-energy point at zero luminance, matching
// cie.XYZ.XYY.
func SRGBToXYY(r, g, b float64) cie.XYY {
	t := LinearRGBToXYZ(ToLinear(r), ToLinear(g), ToLinear(b))
	return t.XYY()
}

// XYYToSRGB converts a D65 xyY color to encoded sRGB components. This is the
// one lossy step of the pipeline: after decoding to linear and encoding, the
// components are clipped to [0, 1], so colors outside the sRGB gamut land on
// the gamut surface.
func XYYToSRGB(p cie.XYY) (r, g, b float64) {
	lr, lg, lb := XYZToLinearRGB(p.XYZ())
	return clamp01(FromLinear(lr)), clamp01(FromLinear(lg)), clamp01(FromLinear(lb))
}

func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}
