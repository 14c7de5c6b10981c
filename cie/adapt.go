package cie

import (
	"fmt"
)

// CAT selects a chromatic adaptation transform: the fixed cone-response
// matrix through which tristimulus values are scaled from one reference
// white to another.
type CAT int

// Supported transforms. Bradford is the zero value and the usual choice;
// XYZScaling scales the raw tristimulus axes (the cone matrix is identity)
// and is kept for comparison against older literature values.
const (
	Bradford CAT = iota
	CAT02
	XYZScaling
)

var catNames = map[CAT]string{
	Bradford:   "Bradford",
	CAT02:      "CAT02",
	XYZScaling: "XYZScaling",
}

func (c CAT) String() string {
	if s, ok := catNames[c]; ok {
		return s
	}
	return "unknown"
}

// Cone-response matrices (sharpened LMS primaries).
var (
	bradford = Mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}
	cat02 = Mat3{
		{0.7328, 0.4296, -0.1624},
		{-0.7036, 1.6975, 0.0061},
		{0.0030, 0.0136, 0.9834},
	}
	identity = Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
)

// Inverses are computed rather than transcribed: published tables carry only
// seven decimals, which is enough noise to spoil adapt-then-unadapt round
// trips that the solver's tolerances care about.
var invBradford, invCat02 Mat3

func init() {
	var err error
	if invBradford, err = bradford.Inverted(); err != nil {
		panic(err)
	}
	if invCat02, err = cat02.Inverted(); err != nil {
		panic(err)
	}
}

func coneMatrices(method CAT) (cone, invCone Mat3, err error) {
	switch method {
	case Bradford:
		return bradford, invBradford, nil
	case CAT02:
		return cat02, invCat02, nil
	case XYZScaling:
		return identity, identity, nil
	}
	return cone, invCone, fmt.Errorf("unknown chromatic adaptation transform: %d", int(method))
}

// scaledConeMatrix builds invCone * diag(dst cone response / src cone
// response) * cone, the von Kries scaling common to all the supported
// transforms.
func scaledConeMatrix(cone, invCone Mat3, src, dst XYZ) Mat3 {
	s := cone.MulVec(Vec3{src.X, src.Y, src.Z})
	d := cone.MulVec(Vec3{dst.X, dst.Y, dst.Z})
	diag := Mat3{
		{d[0] / s[0], 0, 0},
		{0, d[1] / s[1], 0},
		{0, 0, d[2] / s[2]},
	}
	return invCone.Mul(diag.Mul(cone))
}

// AdaptationMatrix returns the matrix taking XYZ values measured under the
// `from` illuminant to their corresponding values under `to`. Both whites
// enter at unit luminance, so the cone ratios depend on chromaticity alone.
func AdaptationMatrix(from, to Illuminant, method CAT) (Mat3, error) {
	if !from.valid() {
		return Mat3{}, fmt.Errorf("unknown source illuminant: %d", int(from))
	}
	if !to.valid() {
		return Mat3{}, fmt.Errorf("unknown target illuminant: %d", int(to))
	}
	return AdaptationMatrixBetweenWhites(from.WhiteXYZ(), to.WhiteXYZ(), method)
}

// AdaptationMatrixBetweenWhites builds the matrix taking XYZ values measured
// against one reference white to values against another. The matrix maps src
// to dst exactly, luminance included. The Illuminant form above is the common
// case; this form serves pipelines whose effective white is not a registry
// illuminant, such as the white implied by an RGB primary matrix, where
// adapting from the nearest illuminant instead would leave the pipeline's own
// greys slightly chromatic.
func AdaptationMatrixBetweenWhites(src, dst XYZ, method CAT) (Mat3, error) {
	if src.Y <= 0 || dst.Y <= 0 {
		return Mat3{}, fmt.Errorf("adaptation whites must have positive luminance")
	}
	cone, invCone, err := coneMatrices(method)
	if err != nil {
		return Mat3{}, err
	}
	return scaledConeMatrix(cone, invCone, src, dst), nil
}

// AdaptXYZ moves tristimulus values from one reference white to another.
func AdaptXYZ(t XYZ, from, to Illuminant, method CAT) (XYZ, error) {
	m, err := AdaptationMatrix(from, to, method)
	if err != nil {
		return XYZ{}, err
	}
	if from == to {
		// The matrix for from == to is only identity up to rounding;
		// skip it so a no-op adaptation is exactly a no-op.
		return t, nil
	}
	v := m.MulVec(Vec3{t.X, t.Y, t.Z})
	return XYZ{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Adapt moves an xyY color from one reference white to another. Black has no
// tristimulus signal, so its chromaticity is adapted at unit luminance and
// the zero luminance is put back afterwards.
func Adapt(p XYY, from, to Illuminant, method CAT) (XYY, error) {
	m, err := AdaptationMatrix(from, to, method)
	if err != nil {
		return XYY{}, err
	}
	if from == to {
		return p, nil
	}
	black := p.Luminance == 0
	if black {
		p.Luminance = 1
	}
	t := p.XYZ()
	v := m.MulVec(Vec3{t.X, t.Y, t.Z})
	q := XYZ{X: v[0], Y: v[1], Z: v[2]}.XYY()
	if black {
		q.Luminance = 0
	}
	return q, nil
}
