package munsell

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// The quintic relating Munsell value to luminous reflectance, from ASTM
// D1535. It works on the 0-100 luminance scale and is exact at both ends:
// luminanceASTM(0) == 0 and luminanceASTM(10) == 100.
func luminanceASTM(v float64) float64 {
	return v * (1.1914 + v*(-0.22533+v*(0.23352+v*(-0.020484+v*0.00081939))))
}

func luminanceASTMSlope(v float64) float64 {
	return 1.1914 + v*(-0.45066+v*(0.70056+v*(-0.081936+v*0.00409695)))
}

// ValueToLuminance converts a Munsell value on [0, 10] to the luminance of a
// surface of that value, on [0, 1] with the reference white at 1.
func ValueToLuminance(v float64) (float64, error) {
	if math.IsNaN(v) || v < 0 || v > 10 {
		return 0, domainError("value", v, 0, 10)
	}
	return luminanceASTM(v) / 100, nil
}

// LuminanceToValue inverts the ASTM value polynomial by Newton-Raphson. The
// polynomial is monotone on the value domain, so with each step clamped back
// to [0, 10] the iteration cannot escape or diverge, even for luminances at
// the very ends of [0, 1]. Values within 1e-10 of an integer snap to it, so
// that luminances produced by ValueToLuminance at integer values invert
// exactly.
func LuminanceToValue(y float64) (float64, error) {
	if math.IsNaN(y) || y < 0 || y > 1 {
		return 0, domainError("luminance", y, 0, 1)
	}
	target := y * 100
	v := target / 10 // coarse linear seed
	for range 64 {
		diff := target - luminanceASTM(v)
		if math.Abs(diff) < 1e-10 {
			break
		}
		v += diff / luminanceASTMSlope(v)
		if v < 0 {
			v = 0
		} else if v > 10 {
			v = 10
		}
	}
	if snapped := math.Round(v); math.Abs(v-snapped) < 1e-10 {
		v = snapped
	}
	return v, nil
}
