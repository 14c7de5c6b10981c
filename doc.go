/*
Package munsell converts colors between CIE xyY and the Munsell renotation system.

The forward direction (MunsellToXYY) interpolates the embedded renotation
measurements directly. The reverse direction (XYYToMunsell) has no closed form:
it is solved iteratively, rotating hue and scaling chroma until the candidate's
chromaticity lands on the target. Both work under illuminant C, the reference
the renotation was measured against; colors under another illuminant go through
the cie subpackage's chromatic adaptation first, and sRGB pixels through the
srgb subpackage.

All conversions are pure functions over plain value types and are safe to call
from any number of goroutines; the batch subpackage builds a cached, parallel
image pipeline on top of them.
*/
package munsell

import "fmt"

type MunsellVersion struct {
	Major, Minor, Patch uint
}

func (v MunsellVersion) String(o MunsellVersion) string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v MunsellVersion) Equal(o MunsellVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v MunsellVersion) After(o MunsellVersion) bool {
	switch {
	case v.Major == o.Major:
		switch {
		case v.Minor == o.Minor:
			return v.Patch > o.Patch
		case v.Minor > o.Minor:
			return true
		case v.Minor < o.Minor:
			return false
		}
	case v.Major > o.Major:
		return true
	case v.Major < o.Major:
		return false
	}
	return false
}

func (v MunsellVersion) Before(o MunsellVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = MunsellVersion{1, 0, 0}
