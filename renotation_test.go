package munsell

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataset(t *testing.T) {
	tab := renotation()
	require.Len(t, tab.entries, 2737)

	// Every one of the 40 tabulated hue lines must be present at every
	// value plane the renotation covers.
	for code := B; code <= PB; code++ {
		for step := 1; step <= 4; step++ {
			for value := 1; value <= 9; value++ {
				top, ok := tab.top[lineKey{code, step, value}]
				require.True(t, ok, "missing hue line %v step %d value %d", code, step, value)
				require.GreaterOrEqual(t, top, 2)
			}
		}
	}

	first := renotationEntry{Hue: 2.5, Code: R, Value: 1, Chroma: 2, X: 0.3533, Y: 0.2746, Yl: 1.1799}
	if diff := cmp.Diff(first, tab.entries[0]); diff != "" {
		t.Fatalf("first entry mismatch (-want +got):\n%s", diff)
	}
	last := renotationEntry{Hue: 10, Code: RP, Value: 9, Chroma: 10, X: 0.3364, Y: 0.2505, Yl: 76.6956}
	if diff := cmp.Diff(last, tab.entries[len(tab.entries)-1]); diff != "" {
		t.Fatalf("last entry mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMalformedData(t *testing.T) {
	cases := map[string]string{
		"truncated row":   "2.5R 1 2 0.3533 0.2746",
		"bad hue family":  "2.5Q 1 2 0.3533 0.2746 1.1799",
		"off-grid hue":    "3R 1 2 0.3533 0.2746 1.1799",
		"odd chroma":      "2.5R 1 3 0.3533 0.2746 1.1799",
		"value zero":      "2.5R 0 2 0.3533 0.2746 1.1799",
		"value past nine": "2.5R 10 2 0.3533 0.2746 1.1799",
		"bad number":      "2.5R 1 2 x 0.2746 1.1799",
		"duplicate":       "2.5R 1 2 0.3533 0.2746 1.1799\n2.5R 1 2 0.3533 0.2746 1.1799",
		"empty":           "# nothing but comments\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseRenotation(data)
			require.Error(t, err)
		})
	}
}

func TestDatasetLuminanceColumn(t *testing.T) {
	// The Y(%) column is redundant with the value polynomial; a drift
	// between the two means the resource was regenerated incorrectly.
	for _, e := range renotation().entries {
		want, err := ValueToLuminance(float64(e.Value))
		require.NoError(t, err)
		require.InDelta(t, want*100, e.Yl, 1e-3, "entry %g%s %d/%d", e.Hue, e.Code, e.Value, e.Chroma)
	}
}

func TestBoundingHues(t *testing.T) {
	type bounds struct {
		hueCW   float64
		codeCW  HueFamily
		hueCCW  float64
		codeCCW HueFamily
	}
	cases := []struct {
		name string
		hue  float64
		code HueFamily
		want bounds
	}{
		{"on grid", 2.5, R, bounds{2.5, R, 2.5, R}},
		{"on grid ten", 10, GY, bounds{10, GY, 10, GY}},
		{"zero wraps", 0, R, bounds{10, RP, 10, RP}},
		{"zero wraps at family seam", 0, PB, bounds{10, B, 10, B}},
		{"between lines", 6.1, PB, bounds{5, PB, 7.5, PB}},
		{"below first line", 1.3, R, bounds{10, RP, 2.5, R}},
		{"below first line at family seam", 0.4, B, bounds{10, BG, 2.5, B}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hueCW, codeCW, hueCCW, codeCCW, err := BoundingHues(tc.hue, tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, bounds{hueCW, codeCW, hueCCW, codeCCW})
		})
	}

	_, _, _, _, err := BoundingHues(10.4, R)
	assert.Error(t, err)
	_, _, _, _, err = BoundingHues(5, HueFamily(0))
	assert.Error(t, err)
}

func TestMaximumChroma(t *testing.T) {
	tab := renotation()
	lineTop := func(hue float64, code HueFamily, value int) float64 {
		top, ok := tab.top[lineKey{code, hueStep(hue), value}]
		require.True(t, ok)
		return float64(top)
	}

	t.Run("exact on grid", func(t *testing.T) {
		got, err := MaximumChroma(5, R, 5)
		require.NoError(t, err)
		assert.Equal(t, lineTop(5, R, 5), got)
	})

	t.Run("minimum across bounding lines and planes", func(t *testing.T) {
		got, err := MaximumChroma(4, R, 5.5)
		require.NoError(t, err)
		want := min(lineTop(2.5, R, 5), lineTop(2.5, R, 6), lineTop(5, R, 5), lineTop(5, R, 6))
		assert.Equal(t, want, got)
	})

	t.Run("value clamped to measured planes", func(t *testing.T) {
		lo, err := MaximumChroma(5, R, 0.2)
		require.NoError(t, err)
		assert.Equal(t, lineTop(5, R, 1), lo)
		hi, err := MaximumChroma(5, R, 9.8)
		require.NoError(t, err)
		assert.Equal(t, lineTop(5, R, 9), hi)
	})

	t.Run("zero hue wraps", func(t *testing.T) {
		got, err := MaximumChroma(0, R, 5)
		require.NoError(t, err)
		assert.Equal(t, lineTop(10, RP, 5), got)
	})

	_, err := MaximumChroma(5, R, 10.5)
	assert.Error(t, err)
}

func TestXYForSpecExactOnGrid(t *testing.T) {
	entries := renotation().entries
	for i := 0; i < len(entries); i += 37 {
		e := entries[i]
		x, y, err := XYForSpec(e.Hue, e.Code, float64(e.Value), float64(e.Chroma))
		require.NoError(t, err)
		require.Equal(t, e.X, x, "x of %g%s %d/%d", e.Hue, e.Code, e.Value, e.Chroma)
		require.Equal(t, e.Y, y, "y of %g%s %d/%d", e.Hue, e.Code, e.Value, e.Chroma)
	}
}

func TestXYForSpecContinuity(t *testing.T) {
	const eps = 1e-9
	refX, refY, err := XYForSpec(5, R, 5, 10)
	require.NoError(t, err)

	probe := func(hue float64, code HueFamily, value, chroma float64) (float64, float64) {
		x, y, err := XYForSpec(hue, code, value, chroma)
		require.NoError(t, err)
		return x, y
	}

	t.Run("across hue grid", func(t *testing.T) {
		for _, hue := range []float64{5 - eps, 5 + eps} {
			x, y := probe(hue, R, 5, 10)
			assert.InDelta(t, refX, x, 1e-6)
			assert.InDelta(t, refY, y, 1e-6)
		}
	})
	t.Run("across chroma shell", func(t *testing.T) {
		for _, chroma := range []float64{10 - eps, 10 + eps} {
			x, y := probe(5, R, 5, chroma)
			assert.InDelta(t, refX, x, 1e-6)
			assert.InDelta(t, refY, y, 1e-6)
		}
	})
	t.Run("across value plane", func(t *testing.T) {
		for _, value := range []float64{5 - eps, 5 + eps} {
			x, y := probe(5, R, value, 10)
			assert.InDelta(t, refX, x, 1e-6)
			assert.InDelta(t, refY, y, 1e-6)
		}
	})
	t.Run("across family seam", func(t *testing.T) {
		aX, aY := probe(10, RP, 5, 10)
		bX, bY := probe(eps, R, 5, 10)
		assert.InDelta(t, aX, bX, 1e-6)
		assert.InDelta(t, aY, bY, 1e-6)
	})
}

func TestXYForSpecValueInterpolationIsLuminanceWeighted(t *testing.T) {
	x4, y4, err := XYForSpec(7.5, BG, 4, 6)
	require.NoError(t, err)
	x5, y5, err := XYForSpec(7.5, BG, 5, 6)
	require.NoError(t, err)
	lum := luminanceASTM(4.5)
	w := (lum - luminanceASTM(4)) / (luminanceASTM(5) - luminanceASTM(4))
	x, y, err := XYForSpec(7.5, BG, 4.5, 6)
	require.NoError(t, err)
	assert.InDelta(t, x4+w*(x5-x4), x, 1e-12)
	assert.InDelta(t, y4+w*(y5-y4), y, 1e-12)
	// Value 4.5 is darker than the halfway luminance, so the weight leans
	// toward the lower plane.
	assert.Less(t, w, 0.5)
}

func TestXYForSpecExtrapolatesPastTabulatedChroma(t *testing.T) {
	tab := renotation()
	top := tab.top[lineKey{R, hueStep(5), 5}]
	xOut, yOut, err := XYForSpec(5, R, 5, float64(top))
	require.NoError(t, err)
	xIn, yIn, err := XYForSpec(5, R, 5, float64(top-2))
	require.NoError(t, err)
	x, y, err := XYForSpec(5, R, 5, float64(top+2))
	require.NoError(t, err)
	assert.InDelta(t, xOut+(xOut-xIn), x, 1e-12)
	assert.InDelta(t, yOut+(yOut-yIn), y, 1e-12)
}

func TestXYForSpecAchromaticPoints(t *testing.T) {
	for _, s := range []Spec{
		{Hue: 5, Code: R, Value: 5, Chroma: 0},
		{Hue: 2.5, Code: GY, Value: 0, Chroma: 6},
		{Hue: 7.5, Code: PB, Value: 10, Chroma: 6},
	} {
		x, y, err := XYForSpec(s.Hue, s.Code, s.Value, s.Chroma)
		require.NoError(t, err)
		assert.Equal(t, greyX, x, s.String())
		assert.Equal(t, greyY, y, s.String())
	}
}

func TestXYForSpecDomainErrors(t *testing.T) {
	_, _, err := XYForSpec(-0.5, R, 5, 10)
	assert.Error(t, err)
	_, _, err = XYForSpec(5, R, 11, 10)
	assert.Error(t, err)
	_, _, err = XYForSpec(5, R, 5, -2)
	assert.Error(t, err)
	_, _, err = XYForSpec(5, HueFamily(42), 5, 10)
	assert.Error(t, err)
}

func TestGamutErrorOnUncoveredLine(t *testing.T) {
	// The public surface shields the uncovered value planes (0 and 10 read
	// as achromatic), so reach the lookup directly.
	_, _, err := xyLine(R, 2.5, 0, 4)
	var ge *GamutError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, 2.5, ge.Hue)
	assert.Equal(t, R, ge.Code)
}

func TestMunsellToXYY(t *testing.T) {
	t.Run("grid entry", func(t *testing.T) {
		e := renotation().entries[0]
		p, err := MunsellToXYY(Spec{Hue: e.Hue, Code: e.Code, Value: float64(e.Value), Chroma: float64(e.Chroma)})
		require.NoError(t, err)
		assert.Equal(t, e.X, p.X)
		assert.Equal(t, e.Y, p.Y)
		assert.InDelta(t, e.Yl/100, p.Luminance, 1e-3)
	})
	t.Run("neutral", func(t *testing.T) {
		p, err := MunsellToXYY(Neutral(5))
		require.NoError(t, err)
		assert.Equal(t, greyX, p.X)
		assert.Equal(t, greyY, p.Y)
		want, _ := ValueToLuminance(5)
		assert.Equal(t, want, p.Luminance)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := MunsellToXYY(Spec{Hue: 5, Code: R, Value: -2, Chroma: 4})
		assert.Error(t, err)
	})
}
