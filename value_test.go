package munsell

import (
	"errors"
	"math"
	"testing"
)

func nearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Luminances for integer values, computed from the ASTM quintic by hand.
// These pin the polynomial coefficients against accidental edits.
var valueGoldenCases = []struct {
	name      string
	value     float64
	luminance float64
}{
	{"black", 0, 0},
	{"very dark", 1, 0.0117992539},
	{"dark", 2, 0.0304811648},
	{"middle", 5, 0.1927184375},
	{"light", 9, 0.7669558611},
	{"white", 10, 1},
}

func TestValueToLuminanceGolden(t *testing.T) {
	for _, tc := range valueGoldenCases {
		t.Run(tc.name, func(t *testing.T) {
			y, err := ValueToLuminance(tc.value)
			if err != nil {
				t.Fatal(err)
			}
			if !nearlyEqual(y, tc.luminance, 1e-9) {
				t.Fatalf("golden mismatch for value %g:\n  expected Y = %.10f\n  got      Y = %.10f\n\nIf this change is intentional, update the table of test cases",
					tc.value, tc.luminance, y)
			}
		})
	}
}

func TestLuminanceToValueInvertsExactly(t *testing.T) {
	// Integer values must come back bit-exact through the snap.
	for v := 0; v <= 10; v++ {
		y, err := ValueToLuminance(float64(v))
		if err != nil {
			t.Fatal(err)
		}
		got, err := LuminanceToValue(y)
		if err != nil {
			t.Fatal(err)
		}
		if got != float64(v) {
			t.Fatalf("value %d: round trip gave %.15f, want it exact", v, got)
		}
	}
}

func TestValueRoundTripSweep(t *testing.T) {
	for i := range 10001 {
		v := float64(i) / 1000
		y, err := ValueToLuminance(v)
		if err != nil {
			t.Fatal(err)
		}
		got, err := LuminanceToValue(y)
		if err != nil {
			t.Fatal(err)
		}
		if !nearlyEqual(got, v, 1e-9) {
			t.Fatalf("value %.3f: round trip gave %.12f (error %.3g)", v, got, math.Abs(got-v))
		}
	}
}

func TestLuminanceEndpointsDoNotDiverge(t *testing.T) {
	for _, y := range []float64{0, 1e-15, 1e-9, 1 - 1e-12, 1} {
		v, err := LuminanceToValue(y)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsNaN(v) || v < 0 || v > 10 {
			t.Fatalf("luminance %g: value %v escaped the domain", y, v)
		}
	}
}

func TestValueDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		f    func() (float64, error)
	}{
		{"value below", func() (float64, error) { return ValueToLuminance(-0.01) }},
		{"value above", func() (float64, error) { return ValueToLuminance(10.01) }},
		{"value NaN", func() (float64, error) { return ValueToLuminance(math.NaN()) }},
		{"luminance below", func() (float64, error) { return LuminanceToValue(-0.01) }},
		{"luminance above", func() (float64, error) { return LuminanceToValue(1.01) }},
		{"luminance NaN", func() (float64, error) { return LuminanceToValue(math.NaN()) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.f()
			var de *DomainError
			if !errors.As(err, &de) {
				t.Fatalf("expected a DomainError, got %v", err)
			}
		})
	}
}
