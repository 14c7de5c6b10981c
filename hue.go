package munsell

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// modulo returns the remainder of x/m folded onto [0, m), unlike math.Mod
// which keeps the sign of x. All hue arithmetic in this package goes through
// it: a signed remainder puts negative hue differences on the wrong side of
// the circle and misfiles colors into the opposite family.
func modulo(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// angleDifference folds a raw difference of two angles in degrees onto
// (-180, 180], the signed shortest way around the circle.
func angleDifference(d float64) float64 {
	d = modulo(d, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

func degrees(rad float64) float64 { return rad * (180 / math.Pi) }
func radians(deg float64) float64 { return deg * (math.Pi / 180) }

// The hue circle is warped: perceptually even hue steps do not subtend even
// chromaticity angles about the achromatic point. These node tables carry
// the standard piecewise-linear correspondence between the "single hue"
// scale (family code and hue step flattened onto [0, 10], red at 0) and the
// chromaticity angle in degrees.
var (
	singleHueNodes = []float64{0, 2, 3, 4, 5, 6, 8, 9, 10}
	hueAngleNodes  = []float64{0, 45, 70, 135, 160, 225, 255, 315, 360}
)

// interpolateNodes evaluates the piecewise-linear function through
// (xs[i], ys[i]) at x, clamping outside the node range. xs must be strictly
// increasing.
func interpolateNodes(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	i := 1
	for x > xs[i] {
		i++
	}
	t := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return ys[i-1] + t*(ys[i]-ys[i-1])
}

// singleHue flattens a (hue, family) pair onto the single [0, 10) hue scale,
// with 5R at 0 and the scale increasing opposite to the family code order.
func singleHue(hue float64, code HueFamily) float64 {
	return modulo(float64((17-int(code))%10)+hue/10-0.5, 10)
}

// hueToAngle maps a hue step and family to its chromaticity angle about the
// achromatic point, in degrees on [0, 360).
func hueToAngle(hue float64, code HueFamily) float64 {
	return interpolateNodes(singleHueNodes, hueAngleNodes, singleHue(hue, code))
}

// angleToHue inverts hueToAngle. The returned hue is on (0, 10]: an angle
// landing exactly on a family boundary reads as hue 10 of the earlier family
// rather than hue 0 of the later one.
func angleToHue(angle float64) (hue float64, code HueFamily) {
	single := interpolateNodes(hueAngleNodes, singleHueNodes, modulo(angle, 360))
	switch {
	case single <= 0.5:
		code = R
	case single <= 1.5:
		code = YR
	case single <= 2.5:
		code = Y
	case single <= 3.5:
		code = GY
	case single <= 4.5:
		code = G
	case single <= 5.5:
		code = BG
	case single <= 6.5:
		code = B
	case single <= 7.5:
		code = PB
	case single <= 8.5:
		code = P
	case single <= 9.5:
		code = RP
	default:
		code = R
	}
	hue = modulo(10*modulo(single, 1)+5, 10)
	if hue == 0 {
		hue = 10
	}
	return hue, code
}
