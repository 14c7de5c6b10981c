package munsell

import (
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/kovidgoyal/munsell/cie"
)

var _ = fmt.Print

// The achromatic point of the renotation reference frame: illuminant C.
var greyX, greyY = cie.C.Chromaticity()

// The Munsell renotation measurements: 40 tabulated hue lines (2.5 steps
// through every family) at integer values 1..9 and even chromas, each with
// its chromaticity under illuminant C and its luminous reflectance in
// percent. The resource is frozen; it is parsed, never regenerated or
// corrected here.
//
//go:embed renotation.dat
var renotationData string

type renotationEntry struct {
	Hue    float64
	Code   HueFamily
	Value  int
	Chroma int
	X, Y   float64
	Yl     float64
}

// A hue line is one tabulated hue at one integer value; step indexes the
// four tabulated hues of a family (1..4 for 2.5, 5, 7.5, 10).
type lineKey struct {
	code  HueFamily
	step  int
	value int
}

type patchKey struct {
	line   lineKey
	chroma int
}

type renotationTable struct {
	entries []renotationEntry
	xy      map[patchKey][2]float64
	top     map[lineKey]int // outermost tabulated chroma per hue line
}

var renotation = sync.OnceValue(func() *renotationTable {
	t, err := parseRenotation(renotationData)
	if err != nil {
		panic(fmt.Sprintf("embedded renotation dataset is unreadable: %s", err))
	}
	return t
})

var familyCodes = make(map[string]HueFamily, len(familyNames))

func init() {
	for f, s := range familyNames {
		familyCodes[s] = f
	}
}

func hueStep(hue float64) int { return int(hue / 2.5) }

func parseHueToken(tok string) (float64, HueFamily, error) {
	i := strings.IndexFunc(tok, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if i <= 0 {
		return 0, 0, fmt.Errorf("malformed hue token %q", tok)
	}
	hue, err := strconv.ParseFloat(tok[:i], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hue token %q: %w", tok, err)
	}
	code, ok := familyCodes[tok[i:]]
	if !ok {
		return 0, 0, fmt.Errorf("unknown hue family in token %q", tok)
	}
	if hue != 2.5 && hue != 5 && hue != 7.5 && hue != 10 {
		return 0, 0, fmt.Errorf("hue token %q is not on the 2.5-step grid", tok)
	}
	return hue, code, nil
}

func parseRenotation(data string) (*renotationTable, error) {
	t := &renotationTable{
		xy:  make(map[patchKey][2]float64, 2800),
		top: make(map[lineKey]int, 360),
	}
	for ln, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: expected 6 columns, got %d", ln+1, len(fields))
		}
		hue, code, err := parseHueToken(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln+1, err)
		}
		value, err := strconv.Atoi(fields[1])
		if err != nil || value < 1 || value > 9 {
			return nil, fmt.Errorf("line %d: bad value column %q", ln+1, fields[1])
		}
		chroma, err := strconv.Atoi(fields[2])
		if err != nil || chroma < 2 || chroma%2 != 0 {
			return nil, fmt.Errorf("line %d: bad chroma column %q", ln+1, fields[2])
		}
		var xyl [3]float64
		for i, f := range fields[3:] {
			if xyl[i], err = strconv.ParseFloat(f, 64); err != nil || math.IsNaN(xyl[i]) || math.IsInf(xyl[i], 0) {
				return nil, fmt.Errorf("line %d: bad numeric column %q", ln+1, f)
			}
		}
		k := patchKey{lineKey{code, hueStep(hue), value}, chroma}
		if _, dup := t.xy[k]; dup {
			return nil, fmt.Errorf("line %d: duplicate entry for %g%s %d/%d", ln+1, hue, code, value, chroma)
		}
		t.entries = append(t.entries, renotationEntry{
			Hue: hue, Code: code, Value: value, Chroma: chroma,
			X: xyl[0], Y: xyl[1], Yl: xyl[2],
		})
		t.xy[k] = [2]float64{xyl[0], xyl[1]}
		if chroma > t.top[k.line] {
			t.top[k.line] = chroma
		}
	}
	if len(t.entries) == 0 {
		return nil, fmt.Errorf("no renotation entries found")
	}
	return t, nil
}

// BoundingHues returns the tabulated hue lines bracketing hue within its
// family: the nearest 2.5 multiple at or below (clockwise) and at or above
// (counter-clockwise). A hue already on the grid is its own bracket on both
// sides. Hue 0 is not tabulated; it reads as hue 10 of the preceding family,
// as does the clockwise neighbor of any hue under 2.5.
func BoundingHues(hue float64, code HueFamily) (hueCW float64, codeCW HueFamily, hueCCW float64, codeCCW HueFamily, err error) {
	if !code.valid() {
		return 0, 0, 0, 0, fmt.Errorf("invalid hue family code %d", int(code))
	}
	if math.IsNaN(hue) || hue < 0 || hue > 10 {
		return 0, 0, 0, 0, domainError("hue", hue, 0, 10)
	}
	if modulo(hue, 2.5) == 0 {
		hueCW, codeCW = hue, code
		if hue == 0 {
			hueCW, codeCW = 10, code.precededBy()
		}
		return hueCW, codeCW, hueCW, codeCW, nil
	}
	hueCW = 2.5 * math.Floor(hue/2.5)
	hueCCW = hueCW + 2.5
	codeCW, codeCCW = code, code
	if hueCW == 0 {
		hueCW, codeCW = 10, code.precededBy()
	}
	return hueCW, codeCW, hueCCW, codeCCW, nil
}

// MaximumChroma returns the largest chroma the renotation data can place at
// the given hue and value: the smallest outermost tabulated chroma across
// the bounding hue lines at the bracketing integer values. The measurements
// stop at values 1 and 9, so the value is clamped to [1, 9] for this lookup
// only; the solver's value itself is not constrained by it.
func MaximumChroma(hue float64, code HueFamily, value float64) (float64, error) {
	hueCW, codeCW, hueCCW, codeCCW, err := BoundingHues(hue, code)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || value < 0 || value > 10 {
		return 0, domainError("value", value, 0, 10)
	}
	v := min(max(value, 1), 9)
	vlo, vhi := int(math.Floor(v)), int(math.Ceil(v))
	t := renotation()
	ans := math.Inf(1)
	for _, line := range [2]struct {
		hue  float64
		code HueFamily
	}{{hueCW, codeCW}, {hueCCW, codeCCW}} {
		for _, vv := range [2]int{vlo, vhi} {
			top, ok := t.top[lineKey{line.code, hueStep(line.hue), vv}]
			if !ok {
				return 0, &GamutError{Hue: hue, Code: code, Value: value}
			}
			ans = min(ans, float64(top))
		}
	}
	return ans, nil
}

// XYForSpec returns the chromaticity of the given Munsell coordinates by
// interpolating the renotation measurements: exact on the measured grid,
// linear in chromaticity angle between bounding hue lines, radial between
// even-chroma shells, and linear against luminance between integer value
// planes. Chroma past the measured run of a hue line extrapolates from the
// line's outermost two samples. Zero chroma and the value planes 0 and 10
// sit on the achromatic point.
func XYForSpec(hue float64, code HueFamily, value, chroma float64) (x, y float64, err error) {
	if !code.valid() {
		return 0, 0, fmt.Errorf("invalid hue family code %d", int(code))
	}
	if math.IsNaN(hue) || hue < 0 || hue > 10 {
		return 0, 0, domainError("hue", hue, 0, 10)
	}
	if math.IsNaN(value) || value < 0 || value > 10 {
		return 0, 0, domainError("value", value, 0, 10)
	}
	if math.IsNaN(chroma) || chroma < 0 {
		return 0, 0, domainError("chroma", chroma, 0, math.Inf(1))
	}
	return xyAt(hue, code, value, chroma)
}

// xyAt is XYForSpec without the revalidation; the solver calls it on every
// probe.
func xyAt(hue float64, code HueFamily, value, chroma float64) (float64, float64, error) {
	if chroma == 0 {
		return greyX, greyY, nil
	}
	if value == math.Floor(value) {
		return xyPlane(hue, code, int(value), chroma)
	}
	vlo := int(math.Floor(value))
	xlo, ylo, err := xyPlane(hue, code, vlo, chroma)
	if err != nil {
		return 0, 0, err
	}
	xhi, yhi, err := xyPlane(hue, code, vlo+1, chroma)
	if err != nil {
		return 0, 0, err
	}
	// weight by luminance rather than value: equal value steps are not
	// equal luminance steps
	lum := luminanceASTM(value)
	llo, lhi := luminanceASTM(float64(vlo)), luminanceASTM(float64(vlo+1))
	w := (lum - llo) / (lhi - llo)
	return xlo + w*(xhi-xlo), ylo + w*(yhi-ylo), nil
}

// xyPlane interpolates within one integer value plane. Chroma between the
// tabulated even shells moves radially about the achromatic point, radius
// and angle each linear in chroma with the angle taking the short way
// around. The dataset has no values 0 or 10; those planes are the black and
// white limits and read as achromatic.
func xyPlane(hue float64, code HueFamily, value int, chroma float64) (float64, float64, error) {
	if value <= 0 || value >= 10 {
		return greyX, greyY, nil
	}
	clo := 2 * math.Floor(chroma/2)
	if clo == chroma {
		return xyShell(hue, code, value, int(chroma))
	}
	xhi, yhi, err := xyShell(hue, code, value, int(clo)+2)
	if err != nil {
		return 0, 0, err
	}
	rhi, phi := polar(xhi, yhi)
	rlo, plo := 0.0, phi
	if clo > 0 {
		xlo, ylo, err := xyShell(hue, code, value, int(clo))
		if err != nil {
			return 0, 0, err
		}
		rlo, plo = polar(xlo, ylo)
	}
	t := (chroma - clo) / 2
	r := rlo + t*(rhi-rlo)
	p := plo + t*angleDifference(phi-plo)
	return greyX + r*math.Cos(radians(p)), greyY + r*math.Sin(radians(p)), nil
}

// xyShell interpolates one even-chroma shell between the hue's bounding
// lines, linearly in chromaticity angle.
func xyShell(hue float64, code HueFamily, value, chroma int) (float64, float64, error) {
	hueCW, codeCW, hueCCW, codeCCW, err := BoundingHues(hue, code)
	if err != nil {
		return 0, 0, err
	}
	xcw, ycw, err := xyLine(codeCW, hueCW, value, chroma)
	if err != nil {
		return 0, 0, err
	}
	if hueCW == hueCCW && codeCW == codeCCW {
		return xcw, ycw, nil
	}
	xccw, yccw, err := xyLine(codeCCW, hueCCW, value, chroma)
	if err != nil {
		return 0, 0, err
	}
	lower := hueToAngle(hueCW, codeCW)
	upper := hueToAngle(hueCCW, codeCCW)
	target := hueToAngle(hue, code)
	// unwrap the 0/360 seam so lower <= target <= upper reads linearly
	if lower == 0 {
		lower = 360
	}
	if lower > upper {
		if lower > target {
			lower -= 360
		} else {
			upper += 360
		}
	}
	w := (target - lower) / (upper - lower)
	return xcw + w*(xccw-xcw), ycw + w*(yccw-ycw), nil
}

// xyLine reads one tabulated hue line at an even chroma. Chromas past the
// line's measured run are extrapolated from its outermost two samples; a
// line with a single sample answers with that sample, and a line with none
// is out of gamut.
func xyLine(code HueFamily, hue float64, value, chroma int) (float64, float64, error) {
	t := renotation()
	line := lineKey{code, hueStep(hue), value}
	if p, ok := t.xy[patchKey{line, chroma}]; ok {
		return p[0], p[1], nil
	}
	top, ok := t.top[line]
	if !ok {
		return 0, 0, &GamutError{Hue: hue, Code: code, Value: float64(value), Chroma: float64(chroma)}
	}
	outer, ok := t.xy[patchKey{line, top}]
	if !ok {
		return 0, 0, &GamutError{Hue: hue, Code: code, Value: float64(value), Chroma: float64(chroma)}
	}
	if top < 4 {
		return outer[0], outer[1], nil
	}
	inner := t.xy[patchKey{line, top - 2}]
	s := float64(chroma-top) / 2
	return outer[0] + s*(outer[0]-inner[0]), outer[1] + s*(outer[1]-inner[1]), nil
}

func polar(x, y float64) (rho, phiDeg float64) {
	return math.Hypot(x-greyX, y-greyY), degrees(math.Atan2(y-greyY, x-greyX))
}

// MunsellToXYY renders a Munsell specification to CIE xyY under the
// renotation reference illuminant C. Neutrals sit on the achromatic point at
// their value's luminance.
func MunsellToXYY(s Spec) (cie.XYY, error) {
	if err := s.validate(); err != nil {
		return cie.XYY{}, err
	}
	lum, err := ValueToLuminance(s.Value)
	if err != nil {
		return cie.XYY{}, err
	}
	if s.IsNeutral() {
		return cie.XYY{X: greyX, Y: greyY, Luminance: lum}, nil
	}
	x, y, err := xyAt(s.Hue, s.Code, s.Value, s.Chroma)
	if err != nil {
		return cie.XYY{}, err
	}
	return cie.XYY{X: x, Y: y, Luminance: lum}, nil
}
