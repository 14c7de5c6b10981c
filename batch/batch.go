// Package batch converts whole images to Munsell notation. It owns the two
// concerns the core solver deliberately does not: orchestration (pixels are
// converted in parallel over rows) and memoization (images rarely carry more
// than a few thousand distinct 8-bit colors, so solves are cached against
// quantized pixel values). The solver itself is a pure function and needs
// neither.
package batch

import (
	"fmt"
	"image"
	"math"
	"slices"
	"sync"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/munsell"
	"github.com/kovidgoyal/munsell/cie"
	"github.com/kovidgoyal/munsell/srgb"
)

var _ = fmt.Print

// Converter turns sRGB pixels into Munsell specifications. It holds the
// chromatic adaptation fused into a single matrix and a cache of solves keyed
// by 8-bit pixel value. A Converter is safe for concurrent use; the zero
// value is not usable, call NewConverter.
type Converter struct {
	adaptation cie.Mat3

	mu    sync.RWMutex
	cache map[[3]uint8]munsell.Result
}

// NewConverter returns a Converter for sRGB input, adapting colors from the
// sRGB white to the illuminant C frame of the renotation data with the given
// transform. cie.Bradford is the usual choice. The source white is the one
// the primary matrix actually encodes, not the registry D65: the two differ
// in the seventh digit, and adapting from the registry white would leave
// every grey pixel slightly chromatic in the C frame.
func NewConverter(method cie.CAT) (*Converter, error) {
	m, err := cie.AdaptationMatrixBetweenWhites(srgb.LinearRGBToXYZ(1, 1, 1), cie.C.WhiteXYZ(), method)
	if err != nil {
		return nil, err
	}
	return &Converter{adaptation: m, cache: make(map[[3]uint8]munsell.Result)}, nil
}

// adapt moves a D65 color into the illuminant C frame through the fused
// matrix, with the same black handling as cie.Adapt: zero luminance carries
// no tristimulus signal, so its chromaticity is adapted at unit luminance and
// the zero put back.
func (c *Converter) adapt(p cie.XYY) cie.XYY {
	black := p.Luminance == 0
	if black {
		p.Luminance = 1
	}
	t := p.XYZ()
	v := c.adaptation.MulVec(cie.Vec3{t.X, t.Y, t.Z})
	q := cie.XYZ{X: v[0], Y: v[1], Z: v[2]}.XYY()
	if black {
		q.Luminance = 0
	}
	return q
}

// Convert solves one sRGB color, components nominally in [0, 1], without
// touching the cache.
func (c *Converter) Convert(r, g, b float64) (munsell.Result, error) {
	p := c.adapt(srgb.SRGBToXYY(r, g, b))
	// Adaptation lands the pipeline white on unit luminance only up to
	// rounding; fold any excess back into the solver's domain.
	if p.Luminance > 1 && p.Luminance <= 1+1e-6 {
		p.Luminance = 1
	}
	return munsell.XYYToMunsell(p)
}

// Convert8 solves one 8-bit sRGB color through the cache. Every distinct
// pixel value is solved at most once per Converter.
func (c *Converter) Convert8(r, g, b uint8) (munsell.Result, error) {
	key := [3]uint8{r, g, b}
	c.mu.RLock()
	res, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return res, nil
	}
	res, err := c.Convert(float64(r)/255, float64(g)/255, float64(b)/255)
	if err != nil {
		return munsell.Result{}, err
	}
	c.mu.Lock()
	c.cache[key] = res
	c.mu.Unlock()
	return res, nil
}

// CacheSize reports how many distinct pixel values have been solved.
func (c *Converter) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func unpremultiply8(v, a uint8) uint8 {
	return uint8((uint16(v) * 0xff) / uint16(a))
}

func unpremultiply16(v, a uint32) uint8 {
	return uint8((v * 0xffff / a) >> 8)
}

// ConvertImage solves every pixel of an image and reduces the results to a
// Histogram, working row ranges in parallel. Pixels are quantized to 8 bits
// per channel for the cache key, which for byte-backed images is exact. Fully
// transparent pixels have no color and are not counted.
func (c *Converter) ConvertImage(img image.Image) (*Histogram, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	total := NewHistogram()
	if width == 0 || height == 0 {
		return total, nil
	}

	var mu sync.Mutex
	var firstErr error
	merge := func(local *Histogram, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		total.Merge(local)
	}

	var f func(start, limit int)
	switch img := img.(type) {
	case *image.NRGBA:
		f = func(start, limit int) {
			local := NewHistogram()
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y:]
				_ = row[4*(width-1)]
				for range width {
					if row[3] != 0 {
						res, err := c.Convert8(row[0], row[1], row[2])
						if err != nil {
							merge(local, err)
							return
						}
						local.Observe(res)
					}
					row = row[4:]
				}
			}
			merge(local, nil)
		}
	case *image.RGBA:
		f = func(start, limit int) {
			local := NewHistogram()
			for y := start; y < limit; y++ {
				row := img.Pix[img.Stride*y:]
				_ = row[4*(width-1)]
				for range width {
					if a := row[3]; a != 0 {
						res, err := c.Convert8(unpremultiply8(row[0], a), unpremultiply8(row[1], a), unpremultiply8(row[2], a))
						if err != nil {
							merge(local, err)
							return
						}
						local.Observe(res)
					}
					row = row[4:]
				}
			}
			merge(local, nil)
		}
	default:
		f = func(start, limit int) {
			local := NewHistogram()
			for y := b.Min.Y + start; y < b.Min.Y+limit; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					r16, g16, b16, a16 := img.At(x, y).RGBA()
					if a16 != 0 {
						res, err := c.Convert8(unpremultiply16(r16, a16), unpremultiply16(g16, a16), unpremultiply16(b16, a16))
						if err != nil {
							merge(local, err)
							return
						}
						local.Observe(res)
					}
				}
			}
			merge(local, nil)
		}
	}
	if err := parallel.Run_in_parallel_over_range(0, f, 0, height); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return total, nil
}

// Bucket quantizes a solved specification onto the renotation sampling grid:
// hue to the nearest 2.5 step, value to the nearest integer, chroma to the
// nearest even number. Specifications that quantize to zero chroma collapse
// to the neutral bucket for their value.
func Bucket(s munsell.Spec) munsell.Spec {
	if s.IsNeutral() {
		return munsell.Neutral(math.Round(s.Value))
	}
	return munsell.Spec{
		Hue:    2.5 * math.Round(s.Hue/2.5),
		Code:   s.Code,
		Value:  math.Round(s.Value),
		Chroma: 2 * math.Round(s.Chroma/2),
	}.Normalize()
}

// Histogram accumulates solves bucketed onto the renotation grid. It is not
// synchronized; ConvertImage gives each worker its own and merges them.
type Histogram struct {
	Total       int
	Unconverged int
	MaxResidual float64

	counts map[munsell.Spec]int
}

func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[munsell.Spec]int)}
}

func (h *Histogram) Observe(res munsell.Result) {
	h.Total++
	if !res.Converged {
		h.Unconverged++
	}
	if res.Residual > h.MaxResidual {
		h.MaxResidual = res.Residual
	}
	h.counts[Bucket(res.Spec)]++
}

func (h *Histogram) Merge(o *Histogram) {
	h.Total += o.Total
	h.Unconverged += o.Unconverged
	h.MaxResidual = max(h.MaxResidual, o.MaxResidual)
	for k, v := range o.counts {
		h.counts[k] += v
	}
}

// Count reports how many solves landed in the given bucket.
func (h *Histogram) Count(b munsell.Spec) int { return h.counts[b] }

// Buckets reports how many distinct buckets have been hit.
func (h *Histogram) Buckets() int { return len(h.counts) }

// Share is the fraction of all counted pixels that n represents.
func (h *Histogram) Share(n int) float64 {
	if h.Total == 0 {
		return 0
	}
	return float64(n) / float64(h.Total)
}

// BucketCount pairs a bucket with its pixel count.
type BucketCount struct {
	Spec  munsell.Spec
	Count int
}

// Top returns the n most populated buckets, most populated first. Ties order
// by value, family, hue and chroma so the result is deterministic.
func (h *Histogram) Top(n int) []BucketCount {
	all := make([]BucketCount, 0, len(h.counts))
	for s, c := range h.counts {
		all = append(all, BucketCount{Spec: s, Count: c})
	}
	slices.SortFunc(all, func(a, b BucketCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return compareSpecs(a.Spec, b.Spec)
	})
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

func compareSpecs(a, b munsell.Spec) int {
	switch {
	case a.Value != b.Value:
		if a.Value < b.Value {
			return -1
		}
		return 1
	case a.Code != b.Code:
		if a.Code < b.Code {
			return -1
		}
		return 1
	case a.Hue != b.Hue:
		if a.Hue < b.Hue {
			return -1
		}
		return 1
	case a.Chroma != b.Chroma:
		if a.Chroma < b.Chroma {
			return -1
		}
		return 1
	}
	return 0
}
