package munsell

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/munsell/cie"
)

var _ = fmt.Print

const (
	// A candidate whose chromaticity lands within this distance of the
	// target is the answer.
	convergenceThreshold = 1e-7
	// Targets closer than this to the achromatic point, or darker than
	// this, have no recoverable hue.
	achromaticThreshold = 1e-7

	outerIterationLimit = 64
	innerIterationLimit = 16

	chromaFloor = 1e-9
)

// Result is the outcome of an xyY → Munsell solve. When the iteration budget
// runs out before a candidate lands inside the convergence threshold, Spec
// holds the best specification reached, Converged is false and Residual says
// how far its chromaticity still is from the target. That is an answer, not
// an error: callers needing exactness check the flag.
type Result struct {
	Spec       Spec
	Converged  bool
	Residual   float64
	Iterations int
}

type hueSample struct{ phi, angle float64 }
type chromaSample struct{ rho, chroma float64 }

// solver carries one invocation's state: the target in polar form about the
// achromatic point, the current candidate, and the samples accumulated for
// extrapolation and bracketing. Radius readings hold only along the hue line
// they were probed on and phi readings only at their chroma, so a move on
// either axis retires the samples accumulated for the other.
type solver struct {
	target cie.XYY
	rho    float64 // target radius about the achromatic point
	phi    float64 // target angle, degrees
	value  float64

	// A hue misaligned by less than this contributes tangential error well
	// inside the convergence budget, leaving the distance test to the
	// chroma refinement.
	angleTolerance float64

	angle  float64 // candidate hue angle, degrees
	hue    float64
	code   HueFamily
	chroma float64

	x, y     float64 // last probed chromaticity
	residual float64

	hueSamples      []hueSample
	low, high       chromaSample
	hasLow, hasHigh bool
}

// XYYToMunsell finds the Munsell specification whose renotation chromaticity
// and luminance reproduce the target color, which must already be expressed
// under illuminant C (see cie.Adapt). Hue and chroma are searched
// iteratively: an outer loop rotates the hue until the candidate's
// chromaticity angle about the achromatic point matches the target's, an
// inner loop then scales and brackets chroma along that hue line, and any
// candidate within the convergence threshold ends the search immediately,
// the initial estimate included.
func XYYToMunsell(p cie.XYY) (Result, error) {
	if math.IsNaN(p.Luminance) || p.Luminance < 0 || p.Luminance > 1 {
		return Result{}, domainError("luminance", p.Luminance, 0, 1)
	}
	if math.IsNaN(p.X) || p.X < 0 || p.X > 1 {
		return Result{}, domainError("chromaticity x", p.X, 0, 1)
	}
	if math.IsNaN(p.Y) || p.Y < 0 || p.Y > 1 {
		return Result{}, domainError("chromaticity y", p.Y, 0, 1)
	}
	value, err := LuminanceToValue(p.Luminance)
	if err != nil {
		return Result{}, err
	}
	rho := math.Hypot(p.X-greyX, p.Y-greyY)
	if rho < achromaticThreshold || p.Luminance < achromaticThreshold {
		return Result{Spec: Neutral(value), Converged: true}, nil
	}
	sv := solver{
		target:         p,
		rho:            rho,
		phi:            degrees(math.Atan2(p.Y-greyY, p.X-greyX)),
		value:          value,
		angleTolerance: degrees(convergenceThreshold / (512 * rho)),
	}
	sv.angle, sv.chroma = initialEstimate(p)
	sv.hue, sv.code = angleToHue(sv.angle)

	converged := false
	iterations := 0
	for iterations < outerIterationLimit {
		iterations++
		maxChroma, err := MaximumChroma(sv.hue, sv.code, sv.value)
		if err != nil {
			return Result{}, err
		}
		sv.chroma = min(max(sv.chroma, chromaFloor), maxChroma)
		if err := sv.probe(); err != nil {
			return Result{}, err
		}
		if sv.residual < convergenceThreshold {
			converged = true
			break
		}
		phiDiff := angleDifference(sv.candidatePhi() - sv.phi)
		if math.Abs(phiDiff) >= sv.angleTolerance {
			sv.stepHue(phiDiff)
			continue
		}
		done, err := sv.refineChroma(maxChroma)
		if err != nil {
			return Result{}, err
		}
		if done {
			converged = true
			break
		}
	}
	spec := Spec{Hue: sv.hue, Code: sv.code, Value: sv.value, Chroma: sv.chroma}.Normalize()
	return Result{Spec: spec, Converged: converged, Residual: sv.residual, Iterations: iterations}, nil
}

func (sv *solver) probe() error {
	x, y, err := xyAt(sv.hue, sv.code, sv.value, sv.chroma)
	if err != nil {
		return err
	}
	sv.x, sv.y = x, y
	sv.residual = math.Hypot(x-sv.target.X, y-sv.target.Y)
	return nil
}

func (sv *solver) candidateRho() float64 { return math.Hypot(sv.x-greyX, sv.y-greyY) }
func (sv *solver) candidatePhi() float64 { return degrees(math.Atan2(sv.y-greyY, sv.x-greyX)) }

// stepHue rotates the candidate toward the target angle. With a single
// sample the chromaticity angle is assumed to track the hue angle one to
// one; from two samples on, the zero crossing of φ is extrapolated through
// the freshest pair. A secant jump that would wrap past the far side of the
// circle is meaningless and falls back to the proportional step.
func (sv *solver) stepHue(phiDiff float64) {
	sv.hueSamples = append(sv.hueSamples, hueSample{phiDiff, sv.angle})
	next := sv.angle - phiDiff
	if n := len(sv.hueSamples); n >= 2 {
		s0, s1 := sv.hueSamples[n-2], sv.hueSamples[n-1]
		if d := s1.phi - s0.phi; math.Abs(d) > 1e-12 {
			jump := s1.phi * angleDifference(s1.angle-s0.angle) / d
			if math.Abs(jump) <= 180 {
				next = s1.angle - jump
			}
		}
	}
	sv.angle = modulo(next, 360)
	sv.hue, sv.code = angleToHue(sv.angle)
	// The radius bracket was sampled along the old hue line and does not
	// describe the new one.
	sv.hasLow, sv.hasHigh = false, false
}

// observe files a chroma probe on the correct side of the radius bracket. A
// sample that contradicts the opposite bound exposes a stretch where the
// radius run is not monotone; the older side reopens rather than pin the
// bracket around it.
func (sv *solver) observe(s chromaSample) {
	if s.rho < sv.rho {
		if !sv.hasLow || s.chroma > sv.low.chroma {
			sv.low, sv.hasLow = s, true
		}
		if sv.hasHigh && sv.low.chroma >= sv.high.chroma {
			sv.hasHigh = false
		}
	} else {
		if !sv.hasHigh || s.chroma < sv.high.chroma {
			sv.high, sv.hasHigh = s, true
		}
		if sv.hasLow && sv.high.chroma <= sv.low.chroma {
			sv.hasLow = false
		}
	}
}

// nextChroma picks the next chroma from the samples seen so far: the radius
// cut of the chord between the bracket bounds once both exist (midpoint when
// the chord is degenerate), a secant through the freshest pair while only
// one side has been seen, and a plain proportional radius rescale before
// that.
func (sv *solver) nextChroma(cur, prev chromaSample, havePrev bool) float64 {
	if sv.hasLow && sv.hasHigh {
		if d := sv.high.rho - sv.low.rho; d > 1e-15 {
			c := sv.low.chroma + (sv.rho-sv.low.rho)*(sv.high.chroma-sv.low.chroma)/d
			if c > sv.low.chroma && c < sv.high.chroma {
				return c
			}
		}
		return 0.5 * (sv.low.chroma + sv.high.chroma)
	}
	if havePrev {
		if d := cur.rho - prev.rho; math.Abs(d) > 1e-15 {
			if c := cur.chroma + (sv.rho-cur.rho)*(cur.chroma-prev.chroma)/d; c > 0 {
				return c
			}
		}
	}
	if cur.rho > 1e-12 {
		return cur.chroma * (sv.rho / cur.rho)
	}
	return cur.chroma
}

// refineChroma walks chroma along the now-aligned hue line until the probe
// lands inside the convergence threshold, the pass budget runs out, or the
// clamp pins the chroma so another probe could not move.
func (sv *solver) refineChroma(maxChroma float64) (bool, error) {
	var prev chromaSample
	havePrev := false
	for range innerIterationLimit {
		cur := chromaSample{sv.candidateRho(), sv.chroma}
		sv.observe(cur)
		next := min(max(sv.nextChroma(cur, prev, havePrev), chromaFloor), maxChroma)
		prev, havePrev = cur, true
		if next == sv.chroma {
			return false, nil
		}
		sv.chroma = next
		// Phi readings are tied to the chroma they were taken at; the hue
		// secant starts over.
		sv.hueSamples = sv.hueSamples[:0]
		if err := sv.probe(); err != nil {
			return false, err
		}
		if sv.residual < convergenceThreshold {
			return true, nil
		}
	}
	return false, nil
}

// initialEstimate seeds the search from CIE Lab computed against the
// renotation illuminant at unit luminance: Lab hue angle maps onto the hue
// circle by 36° family sectors, and C*ab/5.5 lands near enough on the
// Munsell chroma scale (the classic C*ab ≈ 5·chroma relation, deflated
// because Lab chroma runs hot against the renotation data).
func initialEstimate(p cie.XYY) (angle, chroma float64) {
	lch := p.XYZ().Lab(cie.C.WhiteXYZ()).LCHab()
	hue, code := labHueToMunsell(lch.H)
	return hueToAngle(hue, code), lch.C / 5.5
}

func labHueToMunsell(hab float64) (float64, HueFamily) {
	var code HueFamily
	switch {
	case hab == 0:
		code = RP
	case hab <= 36:
		code = R
	case hab <= 72:
		code = YR
	case hab <= 108:
		code = Y
	case hab <= 144:
		code = GY
	case hab <= 180:
		code = G
	case hab <= 216:
		code = BG
	case hab <= 252:
		code = B
	case hab <= 288:
		code = PB
	case hab <= 324:
		code = P
	default:
		code = RP
	}
	hue := modulo(hab, 36) * (10.0 / 36)
	if hue == 0 {
		hue = 10
	}
	return hue, code
}
